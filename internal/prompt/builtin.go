package prompt

// Template names.
const (
	QuestionLocal  = "question-local.md"
	QuestionGlobal = "question-global.md"
	Judge          = "judge.md"
)

// builtinTemplates maps template filename to content.
var builtinTemplates = map[string]string{
	QuestionLocal:  questionLocalTemplate,
	QuestionGlobal: questionGlobalTemplate,
	Judge:          judgeTemplate,
}

// questionLocalTemplate is the system instruction for the local model; the
// diff itself is sent as the user message.
const questionLocalTemplate = `You are a strict code reviewer.
Ask exactly ONE conceptual "WHY" question about the logic changes in the diff you are given.
Rules:
- Fewer than 50 words.
- No preamble, greeting, explanation or summary. Output only the question.
- Ask about intent or consequences of the change, not about style or naming.
{{#if truncated}}
The diff was truncated; ask about the part you can see.
{{/if}}`

const questionGlobalTemplate = `You are a Senior Code Reviewer. Ask one single, hard "WHY" question about the logic of this code change.
Keep it under 50 words and output only the question, with no preamble.
Personal data in the diff has been replaced with upper-case placeholders in double braces; ignore them.
{{#if truncated}}
The diff was truncated; ask about the part you can see.
{{/if}}

{{diff}}
`

const judgeTemplate = `You are a fair but helpful technical professor. Your task is to evaluate a student's understanding of a code change.

Instructions
1. Review the CODE DIFF, the QUESTION and the STUDENT'S ANSWER.
2. Determine if the answer is conceptually correct and fully addresses the question.
3. Your entire response MUST be a single word: PASS or FAIL

-- CONTEXT --
CODE DIFF:
{{diff}}

QUESTION:
{{question}}

STUDENT ANSWER:
{{answer}}

-- VERDICT --
`
