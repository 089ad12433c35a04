package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Luciana-papello/gestao-cs/sheets"
)

// Survey timestamps come from form submissions: full timestamp first, bare
// date as fallback.
var surveyDateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// Header fragments that identify the submission-timestamp column.
var dateColumnFragments = []string{"carimbo", "data", "timestamp", "time"}

var digitRuns = regexp.MustCompile(`\d+`)

// scoreMapping is the single canonical text-to-score vocabulary: range
// phrases map to their midpoint, qualitative answers to a fixed score.
// Order matters twice over: ranges are tried before adjectives, and
// adjectives that contain another entry as a substring ("muito bom" vs
// "bom", "insatisfeito" vs "satisfeito") come first.
var scoreMapping = []struct {
	phrase string
	score  float64
}{
	{"entre 0 e 1", 0.5},
	{"entre 1 e 2", 1.5},
	{"entre 2 e 3", 2.5},
	{"entre 3 e 4", 3.5},
	{"entre 4 e 5", 4.5},
	{"entre 5 e 6", 5.5},
	{"entre 6 e 7", 6.5},
	{"entre 7 e 8", 7.5},
	{"entre 8 e 9", 8.5},
	{"entre 9 e 10", 9.5},
	{"entre 1 e 6", 3.5},
	{"muito insatisfeito", 2},
	{"insatisfeito", 4},
	{"muito satisfeito", 9},
	{"satisfeito", 8},
	{"muito bom", 8},
	{"muito ruim", 3},
	{"excelente", 10},
	{"péssimo", 2},
	{"ótimo", 9},
	{"regular", 6},
	{"ruim", 4},
	{"bom", 7},
}

// TextToScore maps a free-text survey answer onto the 0-10 scale.
// Tried in order: canonical phrase table, then digit extraction (two or more
// digit runs average the first two, a single run is taken as-is). The second
// return is false when nothing in the answer is scoreable.
func TextToScore(answer string) (float64, bool) {
	text := strings.ToLower(strings.TrimSpace(answer))
	if text == "" {
		return 0, false
	}

	for _, m := range scoreMapping {
		if strings.Contains(text, m.phrase) {
			return m.score, true
		}
	}

	runs := digitRuns.FindAllString(text, 2)
	switch len(runs) {
	case 2:
		a, _ := strconv.ParseFloat(runs[0], 64)
		b, _ := strconv.ParseFloat(runs[1], 64)
		return (a + b) / 2, true
	case 1:
		n, _ := strconv.ParseFloat(runs[0], 64)
		return n, true
	}
	return 0, false
}

// NPS categories, in the labels the dashboard displays.
const (
	NPSPromoter      = "Promotor"
	NPSNeutral       = "Neutro"
	NPSDetractor     = "Detrator"
	NPSIndeterminate = "Indefinido"
	NPSNoResponse    = "Sem resposta"
)

var (
	promoterPhrases = []string{
		"entre 9 e 10", "9-10", "promotor",
		"muito provável", "certamente", "definitivamente",
	}
	neutralPhrases = []string{
		"entre 7 e 8", "7-8", "neutro",
		"talvez", "possivelmente", "pode ser",
	}
	detractorPhrases = []string{
		"entre 0 e 6", "0-6", "detrator", "entre 1 e 6",
		"improvável", "nunca", "jamais", "não recomendo",
	}
)

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// ClassifyNPS buckets a free-text likelihood-to-recommend answer.
// Phrase sets are checked promoter → neutral → detractor; answers matching no
// phrase fall back to the first digit run (>=9 promoter, >=7 neutral,
// otherwise detractor). Total on non-empty input; empty input is NoResponse.
func ClassifyNPS(answer string) string {
	text := strings.ToLower(strings.TrimSpace(answer))
	if text == "" {
		return NPSNoResponse
	}

	switch {
	case containsAny(text, promoterPhrases):
		return NPSPromoter
	case containsAny(text, neutralPhrases):
		return NPSNeutral
	case containsAny(text, detractorPhrases):
		return NPSDetractor
	}

	if run := digitRuns.FindString(text); run != "" {
		if score, err := strconv.Atoi(run); err == nil {
			switch {
			case score >= 9:
				return NPSPromoter
			case score >= 7:
				return NPSNeutral
			default:
				return NPSDetractor
			}
		}
	}
	return NPSIndeterminate
}

// SatisfactionResult is the display-ready value for one survey question.
// Sentinel states (column not found, no data in period, no valid responses)
// arrive as value "N/A" with the reason in Trend; the frontend never sees a
// raw error.
type SatisfactionResult struct {
	Value      string                 `json:"value"`
	Trend      string                 `json:"trend"`
	ColorClass string                 `json:"color_class"`
	Details    map[string]interface{} `json:"details"`
}

func satisfactionSentinel(trend, colorClass string) SatisfactionResult {
	return SatisfactionResult{
		Value:      "N/A",
		Trend:      trend,
		ColorClass: colorClass,
		Details:    map[string]interface{}{},
	}
}

func parseSurveyDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range surveyDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// answersInWindow collects non-blank answers whose submission timestamp lies
// in the window. The analysis window includes both bounds; the comparison
// window passes includeEnd=false so its end (the analysis start) is excluded.
func answersInWindow(table *sheets.Table, dateColumn, column string, start, end time.Time, includeEnd bool) []string {
	var answers []string
	for _, row := range table.Rows {
		d, ok := parseSurveyDate(row[dateColumn])
		if !ok {
			continue
		}
		if d.Before(start) {
			continue
		}
		if includeEnd {
			if d.After(end) {
				continue
			}
		} else if !d.Before(end) {
			continue
		}
		if answer := strings.TrimSpace(row[column]); answer != "" {
			answers = append(answers, answer)
		}
	}
	return answers
}

// CalculateSatisfactionMetrics aggregates one survey question over
// [start, end] and reports the trend against the equal-length period
// immediately before it. NPS questions score as promoters-minus-detractors
// percent; everything else as the mean converted score.
func CalculateSatisfactionMetrics(table *sheets.Table, column string, isNPS bool, start, end time.Time) SatisfactionResult {
	if table.IsEmpty() {
		return satisfactionSentinel("Sem dados", "info")
	}

	dateColumn, ok := table.FindColumn(dateColumnFragments...)
	if !ok || !table.HasColumn(column) {
		return satisfactionSentinel("Coluna não encontrada", "info")
	}

	current := answersInWindow(table, dateColumn, column, start, end, true)
	if len(current) == 0 {
		return satisfactionSentinel("Sem dados no período", "warning")
	}

	// Comparison window: the same number of days, ending where the analysis
	// window starts.
	previousStart := start.Add(-end.Sub(start))
	previous := answersInWindow(table, dateColumn, column, previousStart, start, false)

	if isNPS {
		return npsResult(current, previous)
	}
	return meanScoreResult(current, previous)
}

func npsValue(answers []string) (value float64, promoters, neutrals, detractors int, ok bool) {
	for _, answer := range answers {
		switch ClassifyNPS(answer) {
		case NPSPromoter:
			promoters++
		case NPSNeutral:
			neutrals++
		case NPSDetractor:
			detractors++
		}
	}
	total := promoters + neutrals + detractors
	if total == 0 {
		return 0, 0, 0, 0, false
	}
	return float64(promoters-detractors) / float64(total) * 100, promoters, neutrals, detractors, true
}

func npsColorClass(value float64) string {
	switch {
	case value >= 50:
		return "success"
	case value >= 0:
		return "warning"
	default:
		return "danger"
	}
}

func npsResult(current, previous []string) SatisfactionResult {
	value, promoters, neutrals, detractors, ok := npsValue(current)
	if !ok {
		return satisfactionSentinel("Sem respostas válidas", "warning")
	}
	total := promoters + neutrals + detractors

	trend := fmt.Sprintf("%d avaliações", total)
	colorClass := npsColorClass(value)
	if prevValue, _, _, _, prevOK := npsValue(previous); prevOK {
		diff := value - prevValue
		switch {
		case diff > 5:
			trend = fmt.Sprintf("↗️ +%.0f pts vs anterior", diff)
			colorClass = "success"
		case diff < -5:
			trend = fmt.Sprintf("↘️ %.0f pts vs anterior", diff)
			colorClass = "danger"
		default:
			trend = fmt.Sprintf("➡️ %+.0f pts vs anterior", diff)
		}
	}

	return SatisfactionResult{
		Value:      fmt.Sprintf("%.0f", value),
		Trend:      trend,
		ColorClass: colorClass,
		Details: map[string]interface{}{
			"promotores":    promoters,
			"neutros":       neutrals,
			"detratores":    detractors,
			"total_validas": total,
			"nps_valor":     value,
		},
	}
}

func meanScore(answers []string) (float64, int, bool) {
	var sum float64
	count := 0
	for _, answer := range answers {
		if score, ok := TextToScore(answer); ok {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0, 0, false
	}
	return sum / float64(count), count, true
}

func scoreColorClass(value float64) string {
	switch {
	case value >= 8:
		return "success"
	case value >= 6:
		return "warning"
	default:
		return "danger"
	}
}

func meanScoreResult(current, previous []string) SatisfactionResult {
	value, count, ok := meanScore(current)
	if !ok {
		return satisfactionSentinel("Erro na conversão", "warning")
	}

	trend := fmt.Sprintf("%d avaliações", count)
	colorClass := scoreColorClass(value)
	if prevValue, _, prevOK := meanScore(previous); prevOK {
		diff := value - prevValue
		switch {
		case diff > 0.3:
			trend = fmt.Sprintf("↗️ +%.1f vs anterior", diff)
			colorClass = "success"
		case diff < -0.3:
			trend = fmt.Sprintf("↘️ %.1f vs anterior", diff)
			colorClass = "danger"
		default:
			trend = fmt.Sprintf("➡️ %+.1f vs anterior", diff)
		}
	}

	return SatisfactionResult{
		Value:      fmt.Sprintf("%.1f/10", value),
		Trend:      trend,
		ColorClass: colorClass,
		Details: map[string]interface{}{
			"valor_medio":     value,
			"total_respostas": count,
		},
	}
}

// SurveyQuestions are the tracked metrics and the header fragments that
// locate each question column in the survey sheet.
var SurveyQuestions = []struct {
	Name      string
	Fragments []string
	IsNPS     bool
}{
	{Name: "atendimento", Fragments: []string{"atendimento"}},
	{Name: "produto", Fragments: []string{"produto"}},
	{Name: "prazo", Fragments: []string{"prazo"}},
	{Name: "nps", Fragments: []string{"possibilidade", "recomenda"}, IsNPS: true},
}

// FindSurveyColumns maps each tracked question to its column header, when
// present. Questions whose column is missing are simply absent from the map.
func FindSurveyColumns(table *sheets.Table) map[string]string {
	columns := make(map[string]string)
	for _, q := range SurveyQuestions {
		if col, ok := table.FindColumn(q.Fragments...); ok {
			columns[q.Name] = col
		}
	}
	return columns
}
