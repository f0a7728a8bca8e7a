package e2e

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/freeverseio/laos-minters/command/helper"
	scenarios "github.com/freeverseio/laos-minters/e2e"
)

type reportResult struct {
	*scenarios.Report
}

func (r *reportResult) GetOutput() string {
	var buffer bytes.Buffer

	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}

	rows := make([][]string, len(r.Steps))
	for i, step := range r.Steps {
		attempts := ""
		if step.Attempts > 0 {
			attempts = strconv.FormatUint(step.Attempts, 10)
		}

		rows[i] = []string{
			strconv.Itoa(i + 1),
			step.Name,
			string(step.Status),
			attempts,
			step.Duration.Round(time.Millisecond).String(),
			step.Detail,
		}
	}

	buffer.WriteString(fmt.Sprintf("\n[E2E %s]\n", r.Scenario))
	buffer.WriteString(helper.FormatTable([]string{"#", "Step", "Status", "Attempts", "Duration", "Detail"}, rows))
	buffer.WriteString("\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Scenario|%s", r.Scenario),
		fmt.Sprintf("Steps|%d", len(r.Steps)),
		fmt.Sprintf("Duration|%s", r.Duration.Round(time.Millisecond)),
		fmt.Sprintf("Result|%s", status),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
