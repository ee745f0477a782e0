package pipeline

import (
	"context"
	"fmt"
	"strings"

	"docuquery/internal/rag/interfaces"
	"docuquery/pkg/logger"
)

// QAPipeline generates an answer from a query and retrieved context snippets.
type QAPipeline struct {
	llm interfaces.LLM
	log *logger.Logger
}

// NewQAPipeline creates a QAPipeline.
func NewQAPipeline(llm interfaces.LLM, log *logger.Logger) *QAPipeline {
	return &QAPipeline{llm: llm, log: log}
}

// Run builds the answering prompt from the retrieved snippets and calls the
// LLM.
func (p *QAPipeline) Run(ctx context.Context, query string, contexts []string) (string, error) {
	p.log.Info(fmt.Sprintf("Building prompt for query: '%s' with %d context snippets", query, len(contexts)))

	prompt := buildPrompt(query, contexts)

	answer, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.log.Error(fmt.Sprintf("LLM failed to generate answer: %v", err))
		return "", err
	}

	p.log.Info("Successfully generated answer from LLM")
	return answer, nil
}

// buildPrompt constructs the answering prompt. The model is told to admit
// when the context does not contain the answer instead of guessing.
func buildPrompt(query string, contexts []string) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful assistant that answers technical questions using the document context below.\n")
	sb.WriteString("If the answer is not in the context, say \"I don't know.\" Use bullet points.\n\n")
	sb.WriteString("Context:\n\"\"\"\n")
	sb.WriteString(strings.Join(contexts, "\n\n"))
	sb.WriteString("\n\"\"\"\n\n")
	sb.WriteString(fmt.Sprintf("User Query:\n\"%s\"\n\nAnswer:", query))

	return sb.String()
}
