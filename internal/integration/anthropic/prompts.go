package anthropic

import (
	"fmt"
	"strings"

	"github.com/sensai/assist-backend/internal/entity"
)

const hintSystemPrompt = `You are a senior engineer mentoring a student through a coding problem.

Provide exactly the next conceptual step they need, never the full solution.
Respond with 2-3 plain sentences of guidance. No code blocks, no solution listings.`

const codeSystemPrompt = `You are an expert coding assistant with deep knowledge of data structures and algorithms.

Analyze the student's current code state and produce the code they need next.
Always include the code inside a fenced code block in the requested language,
followed by a short time/space complexity discussion.`

// buildUserPrompt composes the problem context for one generation attempt.
// feedback, when present, is the prior attempt's improvement advice and is
// appended so the model can correct the identified weakness.
func buildUserPrompt(req *entity.AssistRequest, feedback string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<problem_title>\n%s\n</problem_title>\n\n", req.ProblemTitle)
	fmt.Fprintf(&b, "<problem_description>\n%s\n</problem_description>\n\n", req.ProblemDescription)
	fmt.Fprintf(&b, "<user_code>\n%s\n</user_code>\n\n", req.UserCode)
	fmt.Fprintf(&b, "<language>\n%s\n</language>\n", req.Language)

	switch req.Mode {
	case entity.ModeHint:
		b.WriteString(`
TASK:
Identify the single most useful next conceptual step for this student.
- 2-3 sentences, plain English.
- Name the applicable algorithmic pattern (DFS, DP, two pointers, sliding window, heap, ...) when one fits.
- Never reveal the complete solution and never paste runnable code.
- If the code is empty or unrelated, suggest the starting step.`)
	case entity.ModeCode:
		b.WriteString(`
TASK:
Produce the code this student needs to progress.
- If their code is nearly complete, give the minimal next step; if they are starting out, a full solution is acceptable.
- Put all code in a single fenced ` + "```" + ` block in the given language.
- After the block, briefly discuss time and space complexity.`)
	}

	if feedback != "" {
		fmt.Fprintf(&b, "\n\n<improvement_advice>\nThe previous attempt was rated poorly. Apply this advice: %s\n</improvement_advice>", feedback)
	}

	return b.String()
}

func systemPromptFor(mode entity.Mode) string {
	if mode == entity.ModeCode {
		return codeSystemPrompt
	}
	return hintSystemPrompt
}
