package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/daily/pkg/report"
)

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }} : ",
	Valid:   "{{ . | green }} : ",
	Invalid: "{{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

var labels = map[string]string{
	"user": "姓名",
	"dept": "部门",
	"date": "汇报日期",
}

// PromptHeader asks for each named header field, offering the current
// value as the default.
func PromptHeader(in io.Reader, out io.Writer, h report.Header, fields []string) (report.Header, error) {
	for _, field := range fields {
		var target *string
		switch field {
		case "user":
			target = &h.User
		case "dept":
			target = &h.Dept
		case "date":
			target = &h.Date
		default:
			continue
		}

		prompt := promptui.Prompt{
			Label:     labels[field],
			Default:   *target,
			Templates: templates,
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("required")
				}
				return nil
			},
			Stdin:  io.NopCloser(in),
			Stdout: NopCloser(out),
		}
		result, err := prompt.Run()
		if err != nil {
			return h, fmt.Errorf("prompt failed: %w", err)
		}
		*target = strings.TrimSpace(result)
	}
	return h, nil
}

// Confirm asks a yes/no question. Anything but yes is false.
func Confirm(in io.Reader, out io.Writer, label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(in),
		Stdout:    NopCloser(out),
	}
	_, err := prompt.Run()
	return err == nil
}
