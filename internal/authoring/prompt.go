package authoring

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const systemPrompt = `你是一名课程编写助手，负责把讲义整理成可以逐条讲授的知识点。

规则：
- 每个知识点只讲一个事实，statement 是讲课时说的一句话。
- 大约三分之一的知识点故意给出错误的 statement（isTrue 为 false），用来检验学员是否认真听讲；correctStatement 必须给出正确说法。
- isTrue 为 true 时，correctStatement 与 statement 含义相同。
- wrongStatements 给出看似合理但错误的说法，互不重复，也不能与 correctStatement 相同。
- topic 是学员提问时会用到的关键词，各知识点的 topic 不能重复。
- hint 用一句话提示思考方向，不要直接给出答案。
- 使用讲义的语言作答，不要使用 Markdown。`

// buildUserMessage constructs the user message from the draft input;
// feedback, when set, explains why the previous draft was rejected.
func buildUserMessage(input DraftInput, cfg Config, feedback string) string {
	var b strings.Builder

	if input.Title != "" {
		fmt.Fprintf(&b, "课程标题：%s\n", input.Title)
	}
	if input.KeyPoints > 0 {
		fmt.Fprintf(&b, "知识点数量：%d\n", input.KeyPoints)
	} else {
		b.WriteString("知识点数量：按讲义内容决定\n")
	}
	fmt.Fprintf(&b, "每个知识点的错误说法数量：%d\n", cfg.WrongStatements)

	if len(input.AvoidTopics) > 0 {
		fmt.Fprintf(&b, "不要重复这些已有的知识点：%s\n", strings.Join(input.AvoidTopics, "、"))
	}

	b.WriteString("\n讲义：\n")
	b.WriteString(truncateRunes(strings.TrimSpace(input.Notes), cfg.MaxNotesRunes))

	if feedback != "" {
		b.WriteString("\n\n上一次的结果未通过检查：")
		b.WriteString(feedback)
	}

	return b.String()
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
