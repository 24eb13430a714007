// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the recipe operations as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/recipes/internal/api"
	"github.com/starford/recipes/internal/apperr"
	"github.com/starford/recipes/internal/recipeservice"
)

// Server wraps the MCP server with the recipe tools.
type Server struct {
	mcp *server.MCPServer
	svc *recipeservice.Service
}

// New creates a new MCP server with all recipe tools registered.
func New(svc *recipeservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Recipes",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List all recipes ordered by popularity (views desc, preparation time asc). "+
			"Listing counts as a view of every recipe."),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Get a recipe with its ingredients. Counts as one view of that recipe."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe ID")),
	), s.getRecipe)

	s.mcp.AddTool(mcp.NewTool("create_recipe",
		mcp.WithDescription("Create a recipe. The payload is a JSON object: "+
			`{"title": string, "preparation_time": int, "views"?: int, "description"?: string, `+
			`"ingredients": [{"title": string, "quantity": int, "unit": string, "description"?: string}]}`),
		mcp.WithString("recipe", mcp.Required(), mcp.Description("Recipe JSON payload")),
	), s.createRecipe)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listRecipes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListRecipes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if raw != math.Trunc(raw) || raw < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("id must be a positive integer, got %v", raw)), nil
	}
	id := int64(raw)

	recipe, err := s.svc.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("recipe %d not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(recipe), nil
}

func (s *Server) createRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := req.RequireString("recipe")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var in api.CreateRecipeRequest
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recipe JSON: %v", err)), nil
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recipe: %v", err)), nil
	}

	recipe, err := s.svc.CreateRecipe(ctx, in.ToInput())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(recipe), nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
