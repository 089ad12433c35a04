package models

import (
	"errors"
	"sort"
	"time"

	"github.com/Luciana-papello/gestao-cs/sheets"
	"github.com/shopspring/decimal"
)

// ErrNoClientData is returned when the classification sheet is empty or
// unavailable. It is the one hard failure of the composer: without clients
// there is nothing meaningful to summarize. Empty order or survey data only
// degrades the affected sections.
var ErrNoClientData = errors.New("no client data available")

// Default analysis windows for the executive view.
const (
	RecurrenceWindowDays   = 180
	SatisfactionWindowDays = 30
)

type KPIs struct {
	TotalClients  int     `json:"total_clientes"`
	ActiveClients int     `json:"clientes_ativos"`
	RetentionRate float64 `json:"taxa_retencao"`
	Critical      int     `json:"clientes_criticos"`
	CriticalRate  float64 `json:"taxa_criticos"`
	TotalRevenue  float64 `json:"receita_total"`
}

type Distributions struct {
	Tier  map[string]int `json:"nivel"`
	Churn map[string]int `json:"churn"`
	Risk  map[string]int `json:"risco"`
}

// AtRiskClient is one entry of the premium-at-risk shortlist.
type AtRiskClient struct {
	Name          string  `json:"nome"`
	Tier          string  `json:"nivel_cliente"`
	RecencyRisk   string  `json:"risco_recencia"`
	Revenue       float64 `json:"receita"`
	PriorityScore float64 `json:"priority_score"`
}

type CriticalAnalysis struct {
	PremiumAtRisk int            `json:"premium_em_risco"`
	TotalPremium  int            `json:"total_premium"`
	RevenueAtRisk float64        `json:"receita_em_risco"`
	TopClients    []AtRiskClient `json:"top_clientes"`
}

type ExecutiveSummary struct {
	KPIs             KPIs                          `json:"kpis"`
	Recurrence       RecurrenceMetrics             `json:"recurrence"`
	Satisfaction     map[string]SatisfactionResult `json:"satisfaction"`
	Distributions    Distributions                 `json:"distributions"`
	CriticalAnalysis CriticalAnalysis              `json:"critical_analysis"`
	LatestUpdate     string                        `json:"latest_update"`
}

// topAtRiskCount bounds the shortlist handed to the frontend.
const topAtRiskCount = 10

var (
	premiumTiers = map[string]bool{"Premium": true, "Gold": true}
	atRiskLevels = map[string]bool{"Alto": true, "Novo_Alto": true, "Médio": true, "Novo_Médio": true}
)

// BuildExecutiveSummary composes the consolidated metrics object over the
// three sheet snapshots, using now to anchor the default windows.
func BuildExecutiveSummary(clients, orders, survey *sheets.Table, now time.Time) (*ExecutiveSummary, error) {
	customers := CustomersFromTable(clients)
	if len(customers) == 0 {
		return nil, ErrNoClientData
	}

	summary := &ExecutiveSummary{
		Satisfaction: make(map[string]SatisfactionResult),
		Distributions: Distributions{
			Tier:  make(map[string]int),
			Churn: make(map[string]int),
			Risk:  make(map[string]int),
		},
		LatestUpdate: LatestOrderDate(orders),
	}

	var totalRevenue decimal.Decimal
	for i := range customers {
		c := &customers[i]
		totalRevenue = totalRevenue.Add(c.Revenue)
		if c.ChurnStatus == "Ativo" {
			summary.KPIs.ActiveClients++
		}
		if c.IsCritical() {
			summary.KPIs.Critical++
		}
		summary.Distributions.Tier[c.Tier]++
		summary.Distributions.Churn[c.ChurnStatus]++
		summary.Distributions.Risk[GroupedRisk(c.RecencyRisk)]++
	}
	total := len(customers)
	summary.KPIs.TotalClients = total
	summary.KPIs.RetentionRate = float64(summary.KPIs.ActiveClients) / float64(total) * 100
	summary.KPIs.CriticalRate = float64(summary.KPIs.Critical) / float64(total) * 100
	summary.KPIs.TotalRevenue = totalRevenue.InexactFloat64()

	recurrenceStart := now.AddDate(0, 0, -RecurrenceWindowDays)
	summary.Recurrence, _ = AnalyzeRecurrence(OrdersFromTable(orders), recurrenceStart, now)

	satisfactionStart := now.AddDate(0, 0, -SatisfactionWindowDays)
	columns := FindSurveyColumns(survey)
	for _, q := range SurveyQuestions {
		column, ok := columns[q.Name]
		if !ok {
			summary.Satisfaction[q.Name] = satisfactionSentinel("Coluna não encontrada", "info")
			continue
		}
		summary.Satisfaction[q.Name] = CalculateSatisfactionMetrics(survey, column, q.IsNPS, satisfactionStart, now)
	}

	summary.CriticalAnalysis = analyzePremiumAtRisk(customers)

	return summary, nil
}

// analyzePremiumAtRisk sizes the revenue exposure of Premium/Gold clients
// sitting in the medium or high recency-risk buckets.
func analyzePremiumAtRisk(customers []Customer) CriticalAnalysis {
	analysis := CriticalAnalysis{TopClients: []AtRiskClient{}}

	var revenueAtRisk decimal.Decimal
	var atRisk []AtRiskClient
	for i := range customers {
		c := &customers[i]
		if !premiumTiers[c.Tier] {
			continue
		}
		analysis.TotalPremium++
		if !atRiskLevels[c.RecencyRisk] {
			continue
		}
		analysis.PremiumAtRisk++
		revenueAtRisk = revenueAtRisk.Add(c.Revenue)
		atRisk = append(atRisk, AtRiskClient{
			Name:          c.Raw["nome"],
			Tier:          c.Tier,
			RecencyRisk:   c.RecencyRisk,
			Revenue:       c.Revenue.InexactFloat64(),
			PriorityScore: c.PriorityScore,
		})
	}
	analysis.RevenueAtRisk = revenueAtRisk.InexactFloat64()

	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].PriorityScore > atRisk[j].PriorityScore
	})
	if len(atRisk) > topAtRiskCount {
		atRisk = atRisk[:topAtRiskCount]
	}
	if len(atRisk) > 0 {
		analysis.TopClients = atRisk
	}

	return analysis
}
