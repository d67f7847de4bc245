package lecture

import (
	"fmt"

	"github.com/cuckoo-ai/cuckoo/internal/course"
)

// Fixed response texts.
const (
	PhraseCorrect      = "回答正确!让我们继续下一部分内容。\n\n"
	PhraseWrongPrefix  = "这个答案不太对哦。要不要再想想看？提示: "
	PhraseUnknownTopic = "抱歉,我需要更多上下文来回答这个问题。你能具体说明是关于哪部分内容的问题吗?"
	PhraseCompleted    = "恭喜你完成了本节课程!"
	PhraseFeedback     = "你理解这部分内容吗?如果有任何疑问都可以随时提出。"
	PhraseCovered      = "课程内容已全部讲解完毕。"
	PhraseInvite       = "你觉得这个概念清楚吗?如果有任何疑问都可以随时提出。"
)

// Tokens the engine looks for in message text.
const (
	tokenQuestionMark = "?"
	tokenQuestion     = "问题"
	tokenIsCorrect    = "是否正确"
	tokenTrueOrFalse  = "对还是错"
	tokenMultiChoice  = "选择题"
	tokenTrueFalse    = "判断题"
)

func lectureSegment(kp course.KeyPoint) string {
	return fmt.Sprintf("让我们来学习关于\"%s\"的内容:\n\n%s\n\n%s", kp.Topic, kp.Statement, PhraseInvite)
}

func questionPrefix(text string) string {
	return fmt.Sprintf("让我来解答你的问题。关于\"%s\",", text)
}

func trueFalseAnswer(kp course.KeyPoint) string {
	if kp.IsTrue {
		return "正确。" + kp.Statement
	}
	return "错误。" + kp.CorrectStatement
}
