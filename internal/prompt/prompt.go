// Package prompt formats resume text into model-ready prompts.
// All functions are pure: identical inputs yield identical prompts.
package prompt

import (
	"fmt"
	"strings"
)

// Language selects the working language of instructions sent to the model.
type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

// Separator delimits resumes in a comparison prompt.
const Separator = "\n---\n"

type templates struct {
	system      string
	summarize   string
	compareHead string
	label       string
	question    string
	instruction string
}

var byLanguage = map[Language]templates{
	Portuguese: {
		system:      "Você é um especialista em recrutamento técnico.",
		summarize:   "Resuma de forma objetiva o currículo abaixo:\n",
		compareHead: "Considere os currículos a seguir:\n",
		label:       "Currículo %d:\n",
		question:    "Pergunta: ",
		instruction: "Analise e responda qual currículo atende melhor, justificando a resposta de forma técnica.\n",
	},
	English: {
		system:      "You are a technical recruiting expert.",
		summarize:   "Summarize the resume below objectively and concisely:\n",
		compareHead: "Consider the following resumes:\n",
		label:       "Resume %d:\n",
		question:    "Question: ",
		instruction: "Analyze and answer which resume fits best, justifying the answer technically.\n",
	},
}

// Builder renders prompts in one language.
type Builder struct {
	t templates
}

// New returns a Builder for lang.
func New(lang Language) (Builder, error) {
	t, ok := byLanguage[Language(strings.ToLower(string(lang)))]
	if !ok {
		return Builder{}, fmt.Errorf("unsupported prompt language %q", lang)
	}
	return Builder{t: t}, nil
}

// System is the fixed instruction establishing the assistant's role.
func (b Builder) System() string {
	return b.t.system
}

// Summarize asks for an objective summary of a single resume.
func (b Builder) Summarize(text string) string {
	return b.t.summarize + text
}

// Compare lays out every resume under a 1-based label, then the query and the
// instruction to pick the best fit.
func (b Builder) Compare(texts []string, query string) string {
	labeled := make([]string, len(texts))
	for i, text := range texts {
		labeled[i] = fmt.Sprintf(b.t.label, i+1) + text
	}

	var sb strings.Builder
	sb.WriteString(b.t.compareHead)
	sb.WriteString(strings.Join(labeled, Separator))
	sb.WriteString("\n")
	sb.WriteString(b.t.question)
	sb.WriteString(query)
	sb.WriteString("\n")
	sb.WriteString(b.t.instruction)
	return sb.String()
}
