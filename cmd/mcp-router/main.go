// cmd/mcp-router/main.go
package main

import (
	"log"
	"net/http"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/mcp/llm"
	"dca-oilgas/internal/server"
	"dca-oilgas/internal/util"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}
	util.SetLogging(cfg.LogFormat, cfg.LogLevel)
	mcphandlers.SetDefaults(mcphandlers.Defaults{
		StartMonths:      cfg.Forecast.StartMonths,
		StepMonths:       cfg.Forecast.StepMonths,
		HorizonMonths:    cfg.Forecast.HorizonMonths,
		MaxSamples:       cfg.Forecast.MaxSamples,
		AvgDaysPerMonth:  cfg.Forecast.AvgDaysPerMonth,
		AnomalyMinZScore: cfg.Forecast.AnomalyMinZScore,
	})

	g := mcp.NewRegistry()
	app.RegisterMCPTools(g)

	var planner mcp.Planner
	if client, err := llm.New(llm.Config{APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.APIBase, Model: cfg.LLM.Model}); err == nil {
		planner = mcp.LLMPlanner{Route: llm.NewRoutePlanner(client)}
	} else {
		log.Printf("[WARN] llm planner disabled: %v", err)
	}

	log.Printf("[INFO] MCP Router listening on :%s (tools: %v)", cfg.MCPPort, g.List())
	log.Fatal(http.ListenAndServe(":"+cfg.MCPPort, server.NewRouter(g, planner)))
}
