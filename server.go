package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Luciana-papello/gestao-cs/config"
	"github.com/Luciana-papello/gestao-cs/models"
	"github.com/Luciana-papello/gestao-cs/models/reports"
	"github.com/Luciana-papello/gestao-cs/sheets"
	"github.com/Luciana-papello/gestao-cs/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

const queryDateLayout = "2006-01-02"

type app struct {
	store *sheets.Store
}

func (a *app) loadClients(ctx context.Context) *sheets.Table {
	return a.store.Load(ctx, config.ClassificationSheetID(), config.ClientsTab)
}

func (a *app) loadOrders(ctx context.Context) *sheets.Table {
	return a.store.Load(ctx, config.ClassificationSheetID(), config.OrdersTab)
}

func (a *app) loadSurvey(ctx context.Context) *sheets.Table {
	return a.store.Load(ctx, config.SurveySheetID(), "")
}

// dateRangeQuery carries the optional analysis window of the metric endpoints.
type dateRangeQuery struct {
	Start string `form:"data_inicio" binding:"omitempty,datetime=2006-01-02"`
	End   string `form:"data_fim" binding:"omitempty,datetime=2006-01-02"`
}

// window resolves the query into concrete bounds, defaulting to the trailing
// defaultDays period ending now.
func (q dateRangeQuery) window(defaultDays int, now time.Time) (time.Time, time.Time) {
	start := now.AddDate(0, 0, -defaultDays)
	end := now
	if q.Start != "" {
		start, _ = time.Parse(queryDateLayout, q.Start)
	}
	if q.End != "" {
		end, _ = time.Parse(queryDateLayout, q.End)
	}
	return start, end
}

func bindDateRange(c *gin.Context) (dateRangeQuery, bool) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date filter", "fields": utils.ProcessValidationErrors(err)})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		}
		return q, false
	}
	return q, true
}

func periodPayload(start, end time.Time) gin.H {
	return gin.H{
		"inicio": start.Format("02/01/2006"),
		"fim":    end.Format("02/01/2006"),
		"dias":   int(end.Sub(start).Hours() / 24),
	}
}

func (a *app) executiveDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clients := a.loadClients(ctx)
		orders := a.loadOrders(ctx)
		survey := a.loadSurvey(ctx)

		summary, err := models.BuildExecutiveSummary(clients, orders, survey, time.Now())
		if err != nil {
			if errors.Is(err, models.ErrNoClientData) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar dados dos clientes"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar dados: " + err.Error()})
			return
		}

		kpis := summary.KPIs
		retentionClass := "warning"
		if kpis.RetentionRate >= 70 {
			retentionClass = "success"
		}
		criticalClass := "success"
		switch {
		case kpis.CriticalRate >= 15:
			criticalClass = "danger"
		case kpis.CriticalRate >= 10:
			criticalClass = "warning"
		}

		c.JSON(http.StatusOK, gin.H{
			"kpis": gin.H{
				"total_clientes": gin.H{
					"value":    utils.FormatNumber(float64(kpis.TotalClients), "", ""),
					"raw":      kpis.TotalClients,
					"subtitle": "Últimos 24 meses",
				},
				"taxa_retencao": gin.H{
					"value":       fmt.Sprintf("%.1f%%", kpis.RetentionRate),
					"raw":         kpis.RetentionRate,
					"subtitle":    utils.FormatNumber(float64(kpis.ActiveClients), "", "") + " clientes ativos",
					"color_class": retentionClass,
				},
				"taxa_criticos": gin.H{
					"value":       fmt.Sprintf("%.1f%%", kpis.CriticalRate),
					"raw":         kpis.CriticalRate,
					"subtitle":    utils.FormatNumber(float64(kpis.Critical), "", "") + " precisam atenção",
					"color_class": criticalClass,
				},
				"receita_total": gin.H{
					"value":    utils.FormatNumber(kpis.TotalRevenue, "R$ ", ""),
					"raw":      kpis.TotalRevenue,
					"subtitle": "Últimos 24 meses",
				},
			},
			"recurrence":        summary.Recurrence,
			"satisfaction":      summary.Satisfaction,
			"distributions":     summary.Distributions,
			"critical_analysis": summary.CriticalAnalysis,
			"latest_update":     summary.LatestUpdate,
			"timestamp":         time.Now().Format(time.RFC3339),
		})
	}
}

func (a *app) recurrenceDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindDateRange(c)
		if !ok {
			return
		}
		start, end := q.window(models.RecurrenceWindowDays, time.Now())

		table := a.loadOrders(c.Request.Context())
		if table.IsEmpty() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Dados de pedidos não disponíveis"})
			return
		}

		metrics, _ := models.AnalyzeRecurrence(models.OrdersFromTable(table), start, end)

		c.JSON(http.StatusOK, gin.H{
			"periodo": periodPayload(start, end),
			"metrics": metrics,
			"charts_data": gin.H{
				"pie_recurrence": gin.H{
					"labels": []string{"Primeira Compra", "Recompra"},
					"values": []int{metrics.FirstOrders, metrics.RepeatOrders},
					"colors": []string{config.Colors["warning"], config.Colors["success"]},
				},
				"bar_tickets": gin.H{
					"labels": []string{"Primeira Compra", "Recompra"},
					"values": []float64{metrics.FirstTicket, metrics.RepeatTicket},
					"colors": []string{config.Colors["warning"], config.Colors["success"]},
				},
			},
		})
	}
}

func (a *app) satisfactionDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := bindDateRange(c)
		if !ok {
			return
		}
		start, end := q.window(models.SatisfactionWindowDays, time.Now())

		table := a.loadSurvey(c.Request.Context())
		if table.IsEmpty() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Dados de satisfação não disponíveis"})
			return
		}

		columns := models.FindSurveyColumns(table)
		metrics := make(map[string]models.SatisfactionResult, len(columns))
		for _, question := range models.SurveyQuestions {
			column, found := columns[question.Name]
			if !found {
				continue
			}
			metrics[question.Name] = models.CalculateSatisfactionMetrics(table, column, question.IsNPS, start, end)
		}

		c.JSON(http.StatusOK, gin.H{
			"metrics": metrics,
			"periodo": periodPayload(start, end),
		})
	}
}

func (a *app) clientsDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		table := a.loadClients(c.Request.Context())
		if table.IsEmpty() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Dados não disponíveis"})
			return
		}

		customers := models.CustomersFromTable(table)
		clients := make([]map[string]interface{}, 0, len(customers))
		for i := range customers {
			entry := make(map[string]interface{}, len(customers[i].Raw)+2)
			for k, v := range customers[i].Raw {
				entry[k] = v
			}
			entry["priority_score"] = customers[i].PriorityScore
			if phone, ok := customers[i].Raw["telefone"]; ok {
				entry["telefone"] = utils.FormatPhone(phone)
			}
			clients = append(clients, entry)
		}

		c.JSON(http.StatusOK, gin.H{
			"clients": clients,
			"total":   len(clients),
		})
	}
}

func (a *app) exportClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		table := a.loadClients(c.Request.Context())
		if table.IsEmpty() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Dados não disponíveis"})
			return
		}

		f, err := reports.ClientsWorkbook(models.CustomersFromTable(table))
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "exportClientsHandler", "reports.ClientsWorkbook", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar exportação"})
			return
		}

		filename := "clientes_" + time.Now().Format("20060102") + ".xlsx"
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		if err := f.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "server.go", "exportClientsHandler", "excelize.Write", nil, err)
		}
	}
}

func (a *app) analyticsDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.DefaultQuery("period", "90")
		comparison := c.DefaultQuery("comparison", "previous")
		segment := c.DefaultQuery("segment", "all")

		actions, err := models.LoadActions(config.ActionsLogFile())
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "analyticsDataHandler", "models.LoadActions", nil, err)
			actions = nil
		}
		executed := 0
		for _, action := range actions {
			if action.Status == "executada" || action.Status == "concluida" {
				executed++
			}
		}
		pending := len(actions) - executed
		executionRate := 0.0
		if len(actions) > 0 {
			executionRate = float64(executed) / float64(len(actions)) * 100
		}

		summary, err := models.BuildExecutiveSummary(
			a.loadClients(c.Request.Context()),
			a.loadOrders(c.Request.Context()),
			a.loadSurvey(c.Request.Context()),
			time.Now(),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar analytics: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"period":     period,
			"comparison": comparison,
			"segment":    segment,
			"team_performance": gin.H{
				"actions_executed": executed,
				"actions_pending":  pending,
				"execution_rate":   executionRate,
			},
			"financial_analysis": gin.H{
				"total_revenue":    summary.KPIs.TotalRevenue,
				"revenue_at_risk":  summary.CriticalAnalysis.RevenueAtRisk,
				"churn_prediction": summary.KPIs.CriticalRate,
			},
		})
	}
}

func (a *app) refreshDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.store.Reset(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Cache limpo com sucesso",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

type newActionRequest struct {
	ActionType string `json:"action_type" binding:"required"`
	Client     string `json:"client"`
	Owner      string `json:"owner"`
	Notes      string `json:"notes"`
	Status     string `json:"status"`
}

func listActionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		actions, err := models.LoadActions(config.ActionsLogFile())
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "listActionsHandler", "models.LoadActions", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar ações"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"actions": actions, "total": len(actions)})
	}
}

func saveActionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req newActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var verr validator.ValidationErrors
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action", "fields": utils.ProcessValidationErrors(err)})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			}
			return
		}

		saved, err := models.SaveAction(config.ActionsLogFile(), models.Action{
			ActionType: req.ActionType,
			Client:     req.Client,
			Owner:      req.Owner,
			Notes:      req.Notes,
			Status:     req.Status,
		})
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "saveActionHandler", "models.SaveAction", req, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar ação"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "action": saved})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a := &app{store: sheets.NewStore(sheets.NewClient(), config.CacheTTL())}

	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated); in development allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length")

	r.Use(cors.New(corsConfig))
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	api := r.Group("/api")
	api.GET("/executive-data", a.executiveDataHandler())
	api.GET("/recurrence-data", a.recurrenceDataHandler())
	api.GET("/satisfaction-data", a.satisfactionDataHandler())
	api.GET("/clients-data", a.clientsDataHandler())
	api.GET("/analytics-data", a.analyticsDataHandler())
	api.GET("/refresh-data", a.refreshDataHandler())
	api.GET("/export/clients", a.exportClientsHandler())
	api.GET("/actions", listActionsHandler())
	api.POST("/actions", saveActionHandler())

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Redis is optional; connect after the port is open.
	config.ConnectRedis()

	logger.WithFields(logrus.Fields{
		"port": port,
	}).Info("customer-success dashboard API listening")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
