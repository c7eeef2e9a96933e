// ABOUTME: MCP resource implementations for the readings store.
// ABOUTME: Provides health://summary and health://imports/recent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// health://summary - store totals plus latest key metrics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://summary",
		Name:        "Health Store Summary",
		Description: "Store totals and the latest value of key metrics",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// health://imports/recent - recent import ledger entries
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "health://imports/recent",
		Name:        "Recent Imports",
		Description: "The last 10 import ledger entries",
		MIMEType:    "application/json",
	}, s.handleRecentImportsResource)
}

// keyMetrics are surfaced in the summary when present.
var keyMetrics = []string{"Step Count", "Resting Heart Rate", "Body Mass", "Sleep Analysis [Total]"}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	readings, err := s.db.CountReadings()
	if err != nil {
		return nil, fmt.Errorf("failed to count readings: %w", err)
	}
	workouts, err := s.db.CountWorkouts()
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}
	medications, err := s.db.CountMedications()
	if err != nil {
		return nil, fmt.Errorf("failed to count medications: %w", err)
	}
	imports, err := s.db.CountImports()
	if err != nil {
		return nil, fmt.Errorf("failed to count imports: %w", err)
	}

	latest := make(map[string]interface{})
	for _, metric := range keyMetrics {
		r, err := s.db.LatestReading(metric)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest %s: %w", metric, err)
		}
		if r == nil {
			continue
		}
		latest[metric] = map[string]interface{}{
			"timestamp": r.Timestamp.Format(time.RFC3339),
			"value":     r.Value,
			"unit":      r.Unit,
		}
	}

	result := map[string]interface{}{
		"counts": map[string]int{
			"readings":    readings,
			"workouts":    workouts,
			"medications": medications,
			"imports":     imports,
		},
		"latest": latest,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "health://summary",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRecentImportsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.db.ListImports(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	entries := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		entries = append(entries, map[string]interface{}{
			"filename":    rec.Filename,
			"imported_at": rec.ImportedAt.Format(time.RFC3339),
			"rows_added":  rec.RowsAdded,
			"source":      rec.Source,
		})
	}

	data, err := json.MarshalIndent(map[string]interface{}{"imports": entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "health://imports/recent",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
