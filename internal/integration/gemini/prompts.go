package gemini

import (
	"fmt"
	"strings"

	"github.com/sensai/assist-backend/internal/entity"
)

const hintSystemPrompt = `You are a coding mentor. Give the student the next conceptual step for their
problem in 2-3 plain sentences. Never provide the complete solution or any
runnable code.`

const codeSystemPrompt = `You are a coding assistant. Produce the code the student needs next, inside a
single fenced code block in the requested language, followed by one short
sentence on time and space complexity.`

func systemPromptFor(mode entity.Mode) string {
	if mode == entity.ModeCode {
		return codeSystemPrompt
	}
	return hintSystemPrompt
}

func buildUserPrompt(req *entity.AssistRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n\n%s\n\n", req.ProblemTitle, req.ProblemDescription)
	fmt.Fprintf(&b, "Current code (%s):\n%s\n", req.Language, req.UserCode)
	return b.String()
}
