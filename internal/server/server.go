// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/config"
	"github.com/HendryAvila/clarify/internal/mcptools"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/HendryAvila/clarify/internal/prompts"
	"github.com/HendryAvila/clarify/internal/resources"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Name is the MCP server name announced to hosts.
const Name = "clarify"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the memory store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if memory init failed.
func New(cfg config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	detector := ambiguity.NewDetector()

	s := server.NewMCPServer(
		Name,
		service.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register detection tools ---
	//
	// These only need the rule set and work without the store.

	detectTool := mcptools.NewDetectTool(detector, cfg.Analysis.MaxQuestions)
	s.AddTool(detectTool.Definition(), detectTool.Handle)

	summarizeTool := mcptools.NewSummarizeTool(detector)
	s.AddTool(summarizeTool.Definition(), summarizeTool.Handle)

	// --- Register dialogue and memory tools ---
	//
	// The store is an independent subsystem: if it fails to open,
	// detection keeps working. We log a warning and skip the tools
	// that persist threads or project memory.

	cleanup := noop
	memStore, memErr := memory.New(memory.Config{
		DataDir:          cfg.Memory.DataDir,
		MaxTurnLength:    cfg.Memory.MaxTurnLength,
		MaxThreadResults: cfg.Memory.MaxThreadResults,
	})
	if memErr != nil {
		logger.Warn("memory subsystem disabled", zap.Error(memErr))
		memStore = nil
	} else {
		cleanup = func() {
			if err := memStore.Close(); err != nil {
				logger.Warn("memory store close", zap.Error(err))
			}
		}
		svc := service.New(memStore,
			service.WithLogger(logger.Named("service")),
			service.WithDetector(detector),
		)
		registerStoreTools(s, svc, memStore)
	}

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	resumePrompt := prompts.NewResumePrompt()
	s.AddPrompt(resumePrompt.Definition(), resumePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(detector, memStore)
	s.AddResource(resourceHandler.RulesResource(), resourceHandler.HandleRules)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when memory
// is disabled or hasn't been initialized.
func noop() {}

// registerStoreTools registers the tools backed by the SQLite store.
func registerStoreTools(s *server.MCPServer, svc *service.Service, ms *memory.Store) {
	// --- Dialogue ---
	dialogueTool := mcptools.NewDialogueTool(svc)
	s.AddTool(dialogueTool.Definition(), dialogueTool.Handle)

	generateTool := mcptools.NewGenerateTool(svc)
	s.AddTool(generateTool.Definition(), generateTool.Handle)

	threadsTool := mcptools.NewThreadsTool(ms)
	s.AddTool(threadsTool.Definition(), threadsTool.Handle)

	// --- Project memory ---
	memList := mcptools.NewMemoryListTool(svc)
	s.AddTool(memList.Definition(), memList.Handle)

	memUpsert := mcptools.NewMemoryUpsertTool(svc)
	s.AddTool(memUpsert.Definition(), memUpsert.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use clarify effectively.
func serverInstructions() string {
	return `You have access to clarify, an ambiguity detector and clarification dialogue.

## WHEN TO USE clarify

Run clarify_detect on a request before implementing it when the user:
- Uses words like "fast", "some", "handle", "support", "maybe", "etc"
- Mentions a timeout, limit, size, retry or version without a value
- Mentions performance, latency or memory without units
- Claims compatibility with a language, runtime or platform without a version
- Describes an operation that can fail without saying what happens on failure

You do NOT need clarify for:
- Questions, explanations, or documentation
- Changes whose every detail the user already spelled out

## CLARIFICATION LOOP

1. clarify_memory_list: read what the project already settled
2. clarify_dialogue: send the user's request; keep the returned thread_id
3. Ask the user the returned questions (at most three at a time)
4. clarify_dialogue again with each answer, same thread_id
5. clarify_memory_upsert: save every settled fact (key/value)
6. When the next action is generate_code, confirm with the user and run
   clarify_generate_code with the thread_id, a one-line goal and the
   agreed constraints

Use clarify_threads to pick up an earlier thread. The clarify-review prompt
runs the whole loop on a piece of text.`
}
