package command

import (
	"fmt"
	"io"
)

type cliOutput struct {
	commonOutputFormatter

	out    io.Writer
	errOut io.Writer
}

func newCLIOutput(out, errOut io.Writer) *cliOutput {
	return &cliOutput{out: out, errOut: errOut}
}

func (cli *cliOutput) WriteOutput() {
	if cli.errorOutput != nil {
		if cli.commandOutput != nil {
			_, _ = fmt.Fprint(cli.out, cli.commandOutput.GetOutput())
		}

		_, _ = fmt.Fprintln(cli.errOut, "Error:", cli.errorOutput.Error())

		return
	}

	if cli.commandOutput != nil {
		_, _ = fmt.Fprint(cli.out, cli.commandOutput.GetOutput())
	}
}

func (cli *cliOutput) WriteCommandResult(result CommandResult) {
	_, _ = fmt.Fprint(cli.out, result.GetOutput())
}

func (cli *cliOutput) Write(p []byte) (n int, err error) {
	return cli.out.Write(p)
}
