package generator

import (
	"fmt"
	"strings"

	"github.com/iRyanRib/genem/internal/models"
)

const maxSearchQueryLen = 80

// disciplineSearchTerms adds a qualifier to the search query so results lean
// toward current material for the discipline instead of generic hits.
var disciplineSearchTerms = map[models.Discipline]string{
	models.DisciplineMatematica:       "matemática aplicada",
	models.DisciplineCienciasNatureza: "ciências da natureza atualidades",
	models.DisciplineCienciasHumanas:  "ciências humanas atualidades",
	models.DisciplineLinguagens:       "linguagens e códigos",
	models.DisciplineIngles:           "língua inglesa",
	models.DisciplineEspanhol:         "língua espanhola",
}

// BuildSearchQuery derives a short focused query from the source question:
// up to 3 keywords, a discipline qualifier and the current year, capped at
// 80 characters.
func BuildSearchQuery(source models.Question, year int) string {
	term, ok := disciplineSearchTerms[source.Discipline]
	if !ok {
		term = string(source.Discipline)
	}

	var query string
	if len(source.Keywords) > 0 {
		keywords := source.Keywords
		if len(keywords) > 3 {
			keywords = keywords[:3]
		}
		query = fmt.Sprintf("%s %s %d", strings.Join(keywords, " "), term, year)
	} else {
		query = fmt.Sprintf("%s novidades %d", term, year)
	}

	if runes := []rune(query); len(runes) > maxSearchQueryLen {
		query = string(runes[:maxSearchQueryLen])
	}
	return query
}

// BuildResearchNotes packages the raw search output together with the source
// question so later stages keep continuity with what was researched.
func BuildResearchNotes(query, searchResults string, source models.Question) string {
	var sb strings.Builder

	sb.WriteString("Pesquisa sobre: ")
	sb.WriteString(query)
	sb.WriteString("\n\nResultados encontrados:\n")
	sb.WriteString(searchResults)
	sb.WriteString("\n\nQuestão original como referência:\n")
	sb.WriteString("Título: " + source.Title + "\n")
	sb.WriteString("Contexto: " + orDefault(source.Context, "Sem contexto específico") + "\n")
	sb.WriteString("Disciplina: " + string(source.Discipline) + "\n")
	sb.WriteString(fmt.Sprintf("Ano: %d\n", source.Year))

	return sb.String()
}

// maxSimilarQuestions bounds how many similar questions the prompt consults
// for style reference.
const maxSimilarQuestions = 3

// BuildGenerationPrompt assembles the generation instruction from the source
// question, up to three similar questions and the research notes.

func BuildGenerationPrompt(source models.Question, similar []models.Question, researchNotes string) string {
	if len(similar) > maxSimilarQuestions {
		similar = similar[:maxSimilarQuestions]
	}

	var sb strings.Builder

	sb.WriteString("Você é um especialista em criação de questões de vestibular do tipo ENEM.\n\n")

	sb.WriteString("CONTEXTO DA PESQUISA ATUAL:\n")
	sb.WriteString(researchNotes)
	sb.WriteString("\n\n")

	sb.WriteString("QUESTÃO ORIGINAL COMO REFERÊNCIA DETALHADA:\n")
	sb.WriteString("Título: " + source.Title + "\n")
	sb.WriteString("Contexto: " + orDefault(source.Context, "Sem contexto específico") + "\n")
	sb.WriteString("Disciplina: " + string(source.Discipline) + "\n")
	sb.WriteString(fmt.Sprintf("Ano: %d\n\n", source.Year))

	sb.WriteString("Alternativas da questão fonte:\n")
	for _, alt := range source.Alternatives {
		sb.WriteString(fmt.Sprintf("%s) %s\n", alt.Letter, alt.Text))
	}
	sb.WriteString("\nResposta correta da fonte: " + source.CorrectAlternative + "\n")
	sb.WriteString("Introdução das alternativas da fonte: " + orDefault(source.AlternativesIntroduction, "N/A") + "\n")
	sb.WriteString("Resumo da questão fonte: " + orDefault(source.Summary, "N/A") + "\n")
	sb.WriteString("Palavras-chave da fonte: " + orDefault(strings.Join(source.Keywords, ", "), "N/A") + "\n\n")

	sb.WriteString("QUESTÕES SIMILARES PARA REFERÊNCIA (EVITE COPIAR):\n")
	for i, q := range similar {
		sb.WriteString(fmt.Sprintf("Questão %d:\nTítulo: %s\nContexto: %s\n\n", i+1, q.Title, orDefault(q.Context, "Sem contexto")))
	}

	sb.WriteString(`INSTRUÇÕES:
1. Crie uma nova questão INÉDITA baseada no contexto atual pesquisado
2. A questão deve abordar os mesmos tópicos da questão original, mas com informações ATUAIS
3. Use as palavras-chave da questão fonte como guia temático
4. NÃO faça apenas uma paráfrase da questão original
5. Mantenha a mesma disciplina: ` + string(source.Discipline) + `
6. Crie exatamente 5 alternativas (A, B, C, D, E)
7. Indique claramente qual é a alternativa correta
8. Forneça um rationale detalhado para a resposta correta
9. Crie um resumo no mesmo formato da questão fonte

`)
	sb.WriteString(draftFormatContract)
	sb.WriteString("\nRESPONDA APENAS COM O JSON, SEM TEXTO ADICIONAL.\n")

	return sb.String()
}

const (
	// ApprovalMarker in the validation feedback means the draft passed the
	// rubric; RefinementMarker prefixes a structured list of problems.
	ApprovalMarker   = "APROVADO"
	RefinementMarker = "REFINAMENTO_NECESSARIO"
)

// BuildValidationPrompt asks the model to grade a draft against the rubric
// and answer with one of the two markers.
func BuildValidationPrompt(draft *Draft) string {
	var sb strings.Builder

	sb.WriteString("Você é um validador especialista em questões de vestibular ENEM.\n\n")

	sb.WriteString("QUESTÃO PARA VALIDAÇÃO:\n")
	writeDraft(&sb, draft)

	sb.WriteString(`
CRITÉRIOS DE VALIDAÇÃO:
1. A questão está bem formulada e clara?
2. As alternativas são consistentes e do mesmo nível de dificuldade?
3. A resposta correta é realmente a única correta?
4. As alternativas incorretas são plausíveis mas claramente incorretas?
5. O rationale está correto e completo?
6. A questão testa conhecimento relevante para o ENEM?

RESPONDA:
- "` + ApprovalMarker + `" se a questão está perfeita
- "` + RefinementMarker + `: [explicação detalhada dos problemas encontrados]" se precisa melhorar

SUA AVALIAÇÃO:
`)

	return sb.String()
}

// IsApproved decides APPROVED vs NEEDS-REFINEMENT from free-text validation
// feedback: the approval marker must be present and the problem marker
// absent.
func IsApproved(feedback string) bool {
	return strings.Contains(feedback, ApprovalMarker) && !strings.Contains(feedback, RefinementMarker)
}

// BuildRefinementPrompt asks the model to fix the problems listed in the
// validation feedback while keeping the question's essence.
func BuildRefinementPrompt(draft *Draft, validationFeedback string) string {
	var sb strings.Builder

	sb.WriteString("Você precisa refinar a questão baseada no feedback de validação.\n\n")

	sb.WriteString("QUESTÃO ATUAL:\n")
	writeDraft(&sb, draft)

	sb.WriteString("\nFEEDBACK DE VALIDAÇÃO:\n")
	sb.WriteString(validationFeedback)
	sb.WriteString("\n\n")

	sb.WriteString(`INSTRUÇÕES:
1. Corrija TODOS os problemas apontados no feedback
2. Mantenha a essência da questão, apenas aperfeiçoe
3. Garanta que a questão esteja no nível ENEM
4. Confirme que apenas uma alternativa está correta

`)
	sb.WriteString(draftFormatContract)
	sb.WriteString("\nRESPONDA APENAS COM O JSON REFINADO.\n")

	return sb.String()
}

const draftFormatContract = `FORMATO DE RESPOSTA (JSON):
{
    "title": "Título da questão",
    "context": "Contexto/enunciado completo da questão",
    "alternatives_introduction": "Texto introdutório das alternativas (opcional)",
    "alternatives": [
        {"letter": "A", "text": "Texto da alternativa A"},
        {"letter": "B", "text": "Texto da alternativa B"},
        {"letter": "C", "text": "Texto da alternativa C"},
        {"letter": "D", "text": "Texto da alternativa D"},
        {"letter": "E", "text": "Texto da alternativa E"}
    ],
    "correct_alternative": "A",
    "rationale": "Explicação detalhada do porquê a alternativa correta está certa e as outras estão erradas",
    "summary": "Resumo da questão",
    "keywords": ["palavra1", "palavra2", "palavra3"]
}
`

func writeDraft(sb *strings.Builder, draft *Draft) {
	sb.WriteString("Título: " + draft.Title + "\n")
	sb.WriteString("Contexto: " + draft.Context + "\n\nAlternativas:\n")
	for _, alt := range draft.Alternatives {
		sb.WriteString(fmt.Sprintf("%s) %s\n", alt.Letter, alt.Text))
	}
	sb.WriteString("\nResposta correta: " + draft.CorrectAlternative + "\n")
	sb.WriteString("Rationale: " + draft.Rationale + "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
