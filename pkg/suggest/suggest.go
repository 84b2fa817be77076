// Package suggest produces advisory writing tips for report text.
package suggest

import (
	"strings"
	"unicode/utf8"
)

// shortText is the rune length below which the short tip set is used.
const shortText = 100

const (
	// AddPercentage is emitted when a line claims completion without a percentage.
	AddPercentage = "建议补充具体百分比。"
	// TooSparse is emitted when there is no content at all.
	TooSparse = "内容过少，建议细化每一项。"
)

// Tips holds the boilerplate advice. The first two are used for short text,
// the rest for longer text.
var Tips = []string{
	"建议使用简洁的短句，条理清晰；",
	"适当量化工作成效，例如“完成XX模块开发50%”；",
	"明日计划建议明确到具体任务或目标；",
	"如有困难，建议在计划部分注明需协助资源；",
}

const completed = "完成"

// Suggest returns the advice for text in a fixed order. It never fails and
// has no side effects.
func Suggest(text string) []string {
	var advice []string
	lines := strings.Split(strings.TrimSpace(text), "\n")

	for _, l := range lines {
		if strings.Contains(l, completed) && !strings.Contains(l, "%") {
			advice = append(advice, AddPercentage)
			break
		}
	}

	blank := true
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			blank = false
			break
		}
	}
	if blank {
		advice = append(advice, TooSparse)
	}

	if utf8.RuneCountInString(text) < shortText {
		advice = append(advice, Tips[:2]...)
	} else {
		advice = append(advice, Tips[2:]...)
	}
	return advice
}
