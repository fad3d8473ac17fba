package analysis

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hpungsan/mnemo/internal/memory"
)

// markdown is the shared parser used for code-block detection. Parsing
// is read-only and a fresh reader is created per call, so sharing is safe.
var markdown = goldmark.New()

// codeKeywordPattern catches code that isn't fenced: language keywords
// and file extensions inline in prose.
var codeKeywordPattern = regexp.MustCompile(
	`\b(?:func|function|class|def|var|let|const|import|export|return)\b` +
		`|(?:\.py|\.js|\.ts|\.go|\.java|\.cpp|\.c|\.html|\.css)\b`)

// questionPattern flags an interrogative opening for Q&A shape detection.
var questionPattern = regexp.MustCompile(`(?i)(?:\?|^\s*(?:how|what|why|when|where)\b)`)

// hasCodeContent reports whether the text contains a fenced or indented
// code block, an inline code span, or bare code keywords. Block
// structure is detected by walking the markdown AST rather than by
// counting backticks, so unbalanced fences don't confuse it.
func hasCodeContent(content string) bool {
	source := []byte(content)
	root := markdown.Parser().Parse(text.NewReader(source))

	found := false
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan:
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if found {
		return true
	}

	return codeKeywordPattern.MatchString(content)
}

// hasQuestionAnswerShape reports whether the text looks like a question
// followed by a substantial answer.
func hasQuestionAnswerShape(content string) bool {
	var rest string
	if idx := strings.Index(content, "?"); idx >= 0 {
		rest = content[idx+1:]
	} else if loc := questionPattern.FindStringIndex(content); loc != nil {
		rest = content[loc[1]:]
	} else {
		return false
	}

	return memory.CountChars(strings.TrimSpace(rest)) > 50
}
