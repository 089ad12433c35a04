package models

import (
	"github.com/Luciana-papello/gestao-cs/sheets"
	"github.com/shopspring/decimal"
)

// CriticalScore is the triage threshold: a client whose priority score
// reaches it goes into the critical segment. Fixed business constant.
const CriticalScore = 200.0

// Additive weight tables for the priority score. These values are load-bearing:
// downstream thresholds (CriticalScore, the at-risk segment) assume them.
var (
	tierWeights = map[string]float64{
		"Premium": 100,
		"Gold":    80,
		"Silver":  60,
		"Bronze":  40,
	}
	churnWeights = map[string]float64{
		"Dormant_Premium": 300,
		"Dormant_Gold":    250,
		"Dormant_Silver":  200,
		"Dormant_Bronze":  150,
		"Dormant_Novo":    120,
		"Inativo":         100,
		"Ativo":           0,
	}
	riskWeights = map[string]float64{
		"Novo_Alto":  80,
		"Alto":       50,
		"Novo_Médio": 40,
		"Médio":      30,
		"Novo_Baixo": 20,
		"Baixo":      10,
	}
)

const top20Bonus = 25.0

// fieldDefaults centralizes the fallback value per classification field so a
// missing or blank cell always lands on the lowest-weighted category.
var fieldDefaults = map[string]string{
	"nivel_cliente":  "Bronze",
	"status_churn":   "Ativo",
	"risco_recencia": "Baixo",
	"top_20_valor":   "Não",
}

func fieldOrDefault(row sheets.Row, name string) string {
	if v, ok := row[name]; ok && v != "" {
		return v
	}
	return fieldDefaults[name]
}

// Customer is one row of the classification sheet with its derived score.
// Raw keeps the original cells for the roster payload and the Excel export.
type Customer struct {
	Tier          string
	ChurnStatus   string
	RecencyRisk   string
	Top20         bool
	Revenue       decimal.Decimal
	PriorityScore float64
	Raw           sheets.Row
}

// PriorityScore computes the additive triage score. Total and non-negative:
// unknown labels score as the lowest-weighted category of their table
// (tier 40, churn 0, risk 10).
func PriorityScore(tier, risk, churn string, top20 bool) float64 {
	tierW, ok := tierWeights[tier]
	if !ok {
		tierW = tierWeights["Bronze"]
	}
	riskW, ok := riskWeights[risk]
	if !ok {
		riskW = riskWeights["Baixo"]
	}
	churnW := churnWeights[churn] // unknown churn scores 0, same as Ativo
	score := tierW + riskW + churnW
	if top20 {
		score += top20Bonus
	}
	return score
}

func (c *Customer) IsCritical() bool {
	return c.PriorityScore >= CriticalScore
}

// GroupedRisk collapses the New_-prefixed buckets for the risk distribution.
func GroupedRisk(risk string) string {
	switch risk {
	case "Alto", "Novo_Alto":
		return "Alto Risco"
	case "Médio", "Novo_Médio":
		return "Médio Risco"
	case "Baixo", "Novo_Baixo":
		return "Baixo Risco"
	default:
		return "Sem Classificação"
	}
}

// CustomersFromTable scores every row of the classification sheet.
// Rows are never dropped: a fully blank row still yields the baseline score.
func CustomersFromTable(table *sheets.Table) []Customer {
	if table.IsEmpty() {
		return nil
	}
	customers := make([]Customer, 0, table.Len())
	for _, row := range table.Rows {
		c := Customer{
			Tier:        fieldOrDefault(row, "nivel_cliente"),
			ChurnStatus: fieldOrDefault(row, "status_churn"),
			RecencyRisk: fieldOrDefault(row, "risco_recencia"),
			Top20:       fieldOrDefault(row, "top_20_valor") == "Sim",
			Revenue:     ParseAmount(row["receita"]),
			Raw:         row,
		}
		c.PriorityScore = PriorityScore(c.Tier, c.RecencyRisk, c.ChurnStatus, c.Top20)
		customers = append(customers, c)
	}
	return customers
}
