package command

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonOutput struct {
	commonOutputFormatter

	out    io.Writer
	errOut io.Writer
}

func newJSONOutput(out, errOut io.Writer) *jsonOutput {
	return &jsonOutput{out: out, errOut: errOut}
}

func (jo *jsonOutput) WriteOutput() {
	if jo.errorOutput != nil {
		_, _ = fmt.Fprintln(jo.errOut, jo.getErrorOutput())

		return
	}

	if jo.commandOutput != nil {
		_, _ = fmt.Fprintln(jo.out, jo.encode(jo.commandOutput))
	}
}

// WriteCommandResult is a no-op: JSON output carries only the final result
func (jo *jsonOutput) WriteCommandResult(_ CommandResult) {
}

// Write discards progress so that stdout stays valid JSON
func (jo *jsonOutput) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func (jo *jsonOutput) getErrorOutput() string {
	return jo.encode(struct {
		Err    string        `json:"error"`
		Result CommandResult `json:"result,omitempty"`
	}{
		Err:    jo.errorOutput.Error(),
		Result: jo.commandOutput,
	})
}

func (jo *jsonOutput) encode(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}

	return string(bytes)
}
