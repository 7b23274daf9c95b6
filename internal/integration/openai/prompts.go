package openai

import (
	"fmt"
	"strings"

	"github.com/sensai/assist-backend/internal/entity"
)

const evaluatorSystemPrompt = `You are a strict quality evaluator for coding-assistance responses.

Rate the assistant response on four dimensions, each an integer or half-step
from 1 (unacceptable) to 5 (excellent):
- technical_accuracy: is the guidance correct for this problem?
- pedagogical_value: does it help the student learn, not just copy?
- clarity: is it readable and unambiguous?
- contextual_relevance: does it engage with the student's actual code state?

Mode rules:
- "hint" responses must NOT contain a complete solution or a code block.
- "code" responses MUST contain a fenced code block.
A response that violates its mode rule gets mode_compliant=false and
overall_score no higher than 2.

Reply with ONLY a JSON object:
{
  "overall_score": <number 1-5>,
  "metrics": {
    "technical_accuracy": <number>,
    "pedagogical_value": <number>,
    "clarity": <number>,
    "contextual_relevance": <number>
  },
  "mode_compliant": <bool>,
  "improvement_advice": "<one or two concrete sentences when overall_score is below 3, otherwise an empty string>"
}`

func buildEvaluationPrompt(req *entity.AssistRequest, responseText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MODE: %s\n\n", req.Mode)
	fmt.Fprintf(&b, "PROBLEM: %s\n%s\n\n", req.ProblemTitle, req.ProblemDescription)
	fmt.Fprintf(&b, "STUDENT CODE (%s):\n%s\n\n", req.Language, req.UserCode)
	fmt.Fprintf(&b, "ASSISTANT RESPONSE TO EVALUATE:\n%s\n", responseText)
	return b.String()
}
