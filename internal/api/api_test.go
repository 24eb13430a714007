package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/recipes/internal/recipeservice"
	"github.com/starford/recipes/internal/testutil"
)

// testEnv sets up a temp SQLite DB, service, and a router with the recipe
// routes mounted at /recipes.
func testEnv(t *testing.T, legacyNotFound bool) http.Handler {
	t.Helper()
	svc := recipeservice.NewService(testutil.TestDB(t))
	r := chi.NewRouter()
	r.Mount("/recipes", NewRouter(svc, legacyNotFound))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch v := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createRecipe(t *testing.T, h http.Handler, body map[string]any) RecipeDetail {
	t.Helper()
	w := do(t, h, http.MethodPost, "/recipes/", body)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var out RecipeDetail
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCreateThenGetRecipe(t *testing.T) {
	router := testEnv(t, false)

	w := do(t, router, http.MethodPost, "/recipes/", map[string]any{
		"title":            "Pasta",
		"preparation_time": 20,
		"ingredients": []map[string]any{
			{"title": "Flour", "quantity": 200, "unit": "g"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created["title"] != "Pasta" || created["preparation_time"] != float64(20) || created["views"] != float64(0) {
		t.Errorf("create response = %v", created)
	}
	id := int64(created["id"].(float64))

	w = do(t, router, http.MethodGet, "/recipes/"+strconv.FormatInt(id, 10), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail RecipeDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Views != 1 {
		t.Errorf("views = %d, want 1", detail.Views)
	}
	if detail.Description != "" {
		t.Errorf("description = %q, want empty", detail.Description)
	}
	if len(detail.Ingredients) != 1 || detail.Ingredients[0].Title != "Flour" {
		t.Errorf("ingredients = %+v", detail.Ingredients)
	}
}

func TestDetailOmitsIngredientIDs(t *testing.T) {
	router := testEnv(t, false)
	created := createRecipe(t, router, map[string]any{
		"title": "Tea", "preparation_time": 5, "description": "hot",
		"ingredients": []map[string]any{{"title": "Leaves", "quantity": 2, "unit": "g", "description": "black"}},
	})

	w := do(t, router, http.MethodGet, "/recipes/"+strconv.FormatInt(created.ID, 10), nil)
	var raw map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &raw)
	ings, _ := raw["ingredients"].([]any)
	if len(ings) != 1 {
		t.Fatalf("ingredients = %v", raw["ingredients"])
	}
	ing := ings[0].(map[string]any)
	for _, key := range []string{"id", "recipe_id"} {
		if _, ok := ing[key]; ok {
			t.Errorf("nested ingredient exposes %q", key)
		}
	}
	if ing["description"] != "black" {
		t.Errorf("description = %v", ing["description"])
	}
}

func TestCreateWithoutTrailingSlash(t *testing.T) {
	router := testEnv(t, false)
	w := do(t, router, http.MethodPost, "/recipes", map[string]any{
		"title": "Toast", "preparation_time": 3, "ingredients": []any{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing title", map[string]any{"preparation_time": 1, "ingredients": []any{}}, "title"},
		{"missing preparation_time", map[string]any{"title": "x", "ingredients": []any{}}, "preparation_time"},
		{"missing ingredients", map[string]any{"title": "x", "preparation_time": 1}, "ingredients"},
		{"preparation_time wrong type", map[string]any{"title": "x", "preparation_time": "soon", "ingredients": []any{}}, "preparation_time"},
		{"fractional quantity", `{"title":"x","preparation_time":1,"ingredients":[{"title":"a","quantity":1.5,"unit":"g"}]}`, ""},
		{"invalid json", `{"title":`, ""},
		{"empty body", "", ""},
		{"trailing garbage", `{"title":"x","preparation_time":1,"ingredients":[]} garbage`, ""},
		{"two json values", `{"title":"x","preparation_time":1,"ingredients":[]}{"title":"y"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testEnv(t, false)
			w := do(t, router, http.MethodPost, "/recipes/", tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
			}
			var resp struct {
				Error  string         `json:"error"`
				Fields map[string]any `json:"fields"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Error == "" {
				t.Error("error message missing")
			}
			if tt.field != "" {
				if _, ok := resp.Fields[tt.field]; !ok {
					t.Errorf("fields = %v, want key %q", resp.Fields, tt.field)
				}
			}

			// Nothing may have been written.
			w = do(t, router, http.MethodGet, "/recipes/", nil)
			if strings.TrimSpace(w.Body.String()) != "[]" {
				t.Errorf("list after rejected create = %s", w.Body.String())
			}
		})
	}
}

func TestCreateValidation_NestedIngredient(t *testing.T) {
	router := testEnv(t, false)
	w := do(t, router, http.MethodPost, "/recipes/", map[string]any{
		"title": "x", "preparation_time": 1,
		"ingredients": []map[string]any{
			{"title": "ok", "quantity": 1, "unit": "g"},
			{"title": "no unit", "quantity": 1},
		},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var resp struct {
		Fields map[string]map[string]map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if resp.Fields["ingredients"]["1"]["unit"] == "" {
		t.Errorf("fields = %v, want ingredients.1.unit", resp.Fields)
	}
}

func TestListRecipesOrderAndViews(t *testing.T) {
	router := testEnv(t, false)
	for _, r := range []map[string]any{
		{"title": "a", "views": 5, "preparation_time": 30, "ingredients": []any{}},
		{"title": "b", "views": 5, "preparation_time": 10, "ingredients": []any{}},
		{"title": "c", "views": 2, "preparation_time": 1, "ingredients": []any{}},
	} {
		createRecipe(t, router, r)
	}

	for call := 0; call < 2; call++ {
		w := do(t, router, http.MethodGet, "/recipes/", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list status = %d", w.Code)
		}
		var items []RecipeSummary
		_ = json.Unmarshal(w.Body.Bytes(), &items)
		want := []RecipeSummary{
			{Title: "b", PreparationTime: 10, Views: 5 + call},
			{Title: "a", PreparationTime: 30, Views: 5 + call},
			{Title: "c", PreparationTime: 1, Views: 2 + call},
		}
		if len(items) != len(want) {
			t.Fatalf("items = %+v", items)
		}
		for i := range want {
			if items[i] != want[i] {
				t.Errorf("call %d item %d = %+v, want %+v", call, i, items[i], want[i])
			}
		}
	}
}

func TestListRecipesEmpty(t *testing.T) {
	router := testEnv(t, false)
	w := do(t, router, http.MethodGet, "/recipes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %s, want []", w.Body.String())
	}
}

func TestGetRecipeNotFound(t *testing.T) {
	for _, tt := range []struct {
		legacy bool
		want   int
	}{
		{false, http.StatusNotFound},
		{true, http.StatusBadRequest},
	} {
		router := testEnv(t, tt.legacy)
		created := createRecipe(t, router, map[string]any{"title": "x", "preparation_time": 1, "ingredients": []any{}})

		w := do(t, router, http.MethodGet, "/recipes/"+strconv.FormatInt(created.ID+1, 10), nil)
		if w.Code != tt.want {
			t.Errorf("legacy=%v status = %d, want %d", tt.legacy, w.Code, tt.want)
		}

		w = do(t, router, http.MethodGet, "/recipes/"+strconv.FormatInt(created.ID, 10), nil)
		var detail RecipeDetail
		_ = json.Unmarshal(w.Body.Bytes(), &detail)
		if detail.Views != 1 {
			t.Errorf("views after failed lookup = %d, want 1", detail.Views)
		}
	}
}

func TestGetRecipeBadID(t *testing.T) {
	router := testEnv(t, false)
	w := do(t, router, http.MethodGet, "/recipes/abc", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestCreateRejectsOversizedBody(t *testing.T) {
	router := testEnv(t, false)
	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `","preparation_time":1,"ingredients":[]}`
	w := do(t, router, http.MethodPost, "/recipes/", body)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}

	w = do(t, router, http.MethodGet, "/recipes/", nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("list after rejected create = %s", w.Body.String())
	}
}

func TestGetRecipeTrailingSlash(t *testing.T) {
	router := testEnv(t, false)
	created := createRecipe(t, router, map[string]any{
		"title": "Soup", "preparation_time": 15, "ingredients": []any{},
	})

	w := do(t, router, http.MethodGet, "/recipes/"+strconv.FormatInt(created.ID, 10)+"/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail RecipeDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Title != "Soup" || detail.Views != 1 {
		t.Errorf("detail = %+v", detail)
	}

	w = do(t, router, http.MethodGet, "/recipes/999/", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("body = %s, want JSON error", w.Body.String())
	}
}
