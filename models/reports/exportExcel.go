package reports

import (
	"fmt"

	"github.com/Luciana-papello/gestao-cs/models"
	"github.com/xuri/excelize/v2"
)

var clientSheetHeadings = []string{
	"Nome", "Nível", "Status Churn", "Risco Recência",
	"Top 20", "Receita", "Priority Score", "Crítico",
}

// ClientsWorkbook builds an .xlsx export of the scored client roster,
// ordered as loaded, one client per row.
func ClientsWorkbook(customers []models.Customer) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Clientes"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	col := 'A'
	for _, h := range clientSheetHeadings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	for i, c := range customers {
		rowNo := fmt.Sprint(i + 2)
		critical := "Não"
		if c.IsCritical() {
			critical = "Sim"
		}
		top20 := "Não"
		if c.Top20 {
			top20 = "Sim"
		}
		f.SetCellValue(sheetName, "A"+rowNo, c.Raw["nome"])
		f.SetCellValue(sheetName, "B"+rowNo, c.Tier)
		f.SetCellValue(sheetName, "C"+rowNo, c.ChurnStatus)
		f.SetCellValue(sheetName, "D"+rowNo, c.RecencyRisk)
		f.SetCellValue(sheetName, "E"+rowNo, top20)
		f.SetCellValue(sheetName, "F"+rowNo, c.Revenue.InexactFloat64())
		f.SetCellValue(sheetName, "G"+rowNo, c.PriorityScore)
		f.SetCellValue(sheetName, "H"+rowNo, critical)
	}

	return f, nil
}
