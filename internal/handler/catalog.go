package handler

import "net/http"

// GET /ingredients
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListIngredients(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IngredientsResponse{Ingredients: items, Count: len(items)})
}

// GET /ingredients/{ingredientID}
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "ingredientID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid ingredient_id parameter")
		return
	}

	item, err := h.service.GetIngredient(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// GET /meals
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.service.ListMeals(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MealsResponse{Meals: meals, Count: len(meals)})
}

// GET /meals/{mealID}
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "mealID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid meal_id parameter")
		return
	}

	meal, err := h.service.GetMeal(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}
