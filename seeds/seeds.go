package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type mealLine struct {
	line  string
	token string
}

type mealTemplate struct {
	name       string
	category   string
	difficulty string
	lines      []mealLine
}

// "italian seasoning" has no row in ingredients, so a fresh database always
// carries one unresolved token.
var ingredientNames = []string{
	"chicken", "broccoli", "bell pepper", "cherry tomatoes", "olive oil", "garlic",
	"salmon", "lemon", "rice", "turkey", "lettuce", "shrimp", "pasta", "chickpeas",
	"cucumber", "tofu", "soy sauce", "beef", "eggs", "avocado", "bread", "peanuts",
	"noodles", "quinoa", "zucchini", "tuna", "onion", "feta", "spinach", "ginger",
}

var meals = []mealTemplate{
	{"One-Pan Chicken & Vegetables", "dinner", "Easy", []mealLine{
		{"2 chicken breasts", "chicken"}, {"1 cup broccoli florets", "broccoli"},
		{"1 bell pepper, sliced", "bell pepper"}, {"1 cup cherry tomatoes", "cherry tomatoes"},
		{"2 tbsp olive oil", "olive oil"}, {"1 tsp garlic powder", "garlic"},
		{"1 tsp Italian seasoning", "italian seasoning"},
	}},
	{"Lemon Herb Salmon Bowl", "dinner", "Medium", []mealLine{
		{"2 salmon fillets", "salmon"}, {"1 lemon, juiced", "lemon"}, {"1 cup rice", "rice"},
		{"1 cup spinach", "spinach"}, {"1 tbsp olive oil", "olive oil"},
	}},
	{"Turkey Taco Lettuce Wraps", "lunch", "Easy", []mealLine{
		{"300g ground turkey", "turkey"}, {"1 head lettuce", "lettuce"},
		{"1 onion, diced", "onion"}, {"1 avocado", "avocado"}, {"1 cup cherry tomatoes", "cherry tomatoes"},
	}},
	{"Garlic Shrimp Pasta", "dinner", "Medium", []mealLine{
		{"250g shrimp", "shrimp"}, {"200g pasta", "pasta"}, {"4 cloves garlic", "garlic"},
		{"2 tbsp olive oil", "olive oil"}, {"1 lemon", "lemon"}, {"1 tsp garlic, minced", "garlic"},
	}},
	{"Mediterranean Chickpea Plate", "lunch", "Easy", []mealLine{
		{"1 can chickpeas", "chickpeas"}, {"1 cucumber", "cucumber"}, {"100g feta", "feta"},
		{"1 cup cherry tomatoes", "cherry tomatoes"}, {"2 tbsp olive oil", "olive oil"},
	}},
	{"Teriyaki Tofu Stir Fry", "dinner", "Medium", []mealLine{
		{"1 block tofu", "tofu"}, {"3 tbsp soy sauce", "soy sauce"}, {"1 cup broccoli", "broccoli"},
		{"1 bell pepper", "bell pepper"}, {"1 tbsp ginger", "ginger"}, {"1 cup rice", "rice"},
	}},
	{"Beef & Broccoli Rice Bowl", "dinner", "Medium", []mealLine{
		{"300g beef strips", "beef"}, {"2 cups broccoli", "broccoli"}, {"1 cup rice", "rice"},
		{"2 tbsp soy sauce", "soy sauce"}, {"1 clove garlic", "garlic"},
	}},
	{"Avocado Egg Toast Stack", "breakfast", "Easy", []mealLine{
		{"2 slices bread", "bread"}, {"1 avocado", "avocado"}, {"2 eggs", "eggs"},
		{"1 cup spinach", "spinach"},
	}},
	{"Thai Peanut Chicken Noodles", "dinner", "Hard", []mealLine{
		{"2 chicken thighs", "chicken"}, {"200g noodles", "noodles"}, {"3 tbsp peanuts", "peanuts"},
		{"2 tbsp soy sauce", "soy sauce"}, {"1 tbsp ginger", "ginger"}, {"1 bell pepper", "bell pepper"},
	}},
	{"Roasted Veggie Quinoa Mix", "lunch", "Easy", []mealLine{
		{"1 cup quinoa", "quinoa"}, {"1 zucchini", "zucchini"}, {"1 bell pepper", "bell pepper"},
		{"1 onion", "onion"}, {"2 tbsp olive oil", "olive oil"},
	}},
	{"Spicy Tuna Poke Bowl", "lunch", "Hard", []mealLine{
		{"200g tuna", "tuna"}, {"1 cup rice", "rice"}, {"1 avocado", "avocado"},
		{"1 cucumber", "cucumber"}, {"1 tbsp soy sauce", "soy sauce"},
	}},
	{"Spinach Feta Omelette", "breakfast", "Easy", []mealLine{
		{"3 eggs", "eggs"}, {"1 cup spinach", "spinach"}, {"50g feta", "feta"}, {"1/2 onion", "onion"},
	}},
}

var allergens = []string{"peanuts", "shrimp", "eggs", "feta", "tofu"}

// Setup truncates and reseeds every table.
func Setup(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	logger.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE user_allergies, user_preferences, users, meal_ingredients, meals, ingredients
		RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	return SeedCorpus(ctx, pool, rng, logger)
}

// SeedCorpus inserts ingredients, meals and users into freshly truncated tables.
func SeedCorpus(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, logger zerolog.Logger) error {
	logger.Info().Int("count", len(ingredientNames)).Msg("inserting ingredients")
	if err := seedIngredients(ctx, pool); err != nil {
		return fmt.Errorf("seed ingredients: %w", err)
	}

	logger.Info().Int("count", len(meals)).Msg("inserting meals")
	if err := seedMeals(ctx, pool, rng); err != nil {
		return fmt.Errorf("seed meals: %w", err)
	}

	logger.Info().Int("count", 20).Msg("inserting users")
	if err := seedUsers(ctx, pool, rng, 20); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	logger.Info().Msg("seeding complete")
	return nil
}

// ReseedCorpus refills meals and ingredients after a corpus clear, leaving users alone.
func ReseedCorpus(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))
	if _, err := pool.Exec(ctx,
		`TRUNCATE meal_ingredients, meals, ingredients RESTART IDENTITY CASCADE`,
	); err != nil {
		return fmt.Errorf("truncate corpus: %w", err)
	}
	if err := seedIngredients(ctx, pool); err != nil {
		return fmt.Errorf("seed ingredients: %w", err)
	}
	if err := seedMeals(ctx, pool, rng); err != nil {
		return fmt.Errorf("seed meals: %w", err)
	}
	logger.Info().Int("meals", len(meals)).Msg("corpus reseeded")
	return nil
}

func seedIngredients(ctx context.Context, pool *pgxpool.Pool) error {
	rows := make([]string, 0, len(ingredientNames))
	args := make([]any, 0, len(ingredientNames))
	for i, name := range ingredientNames {
		rows = append(rows, fmt.Sprintf("($%d)", i+1))
		args = append(args, name)
	}
	query := "INSERT INTO ingredients (name) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedMeals(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand) error {
	rows := []string{}
	args := []any{}

	for _, m := range meals {
		servings := rng.Intn(4) + 1
		calories := 300 + rng.Intn(400)
		protein := 15 + rng.Intn(35)
		carbs := 10 + rng.Intn(60)
		fat := 5 + rng.Intn(25)
		cost := math.Round((6+rng.Float64()*8)*100) / 100
		prep := 5 + 5*rng.Intn(4)
		cook := 10 + 5*rng.Intn(6)
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))

		base := len(args)
		placeholders := make([]string, 12)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, m.name, m.category, m.difficulty, servings, calories, protein, carbs, fat,
			cost, prep, cook, createdAt)
	}

	query := "INSERT INTO meals (name, category, difficulty, servings, calories, protein, carbs, fat, " +
		"cost, prep_time, cook_time, created_at) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return err
	}

	// meal ids follow insertion order after RESTART IDENTITY
	rows = rows[:0]
	args = args[:0]
	for i, m := range meals {
		for pos, l := range m.lines {
			base := len(args)
			rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
			args = append(args, int64(i+1), pos, l.token, l.line)
		}
	}
	query = "INSERT INTO meal_ingredients (meal_id, position, ingredient_name, line) VALUES " +
		strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	rows := []string{}
	args := []any{}
	for i := range n {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, fmt.Sprintf("User %02d", i+1), fmt.Sprintf("user%02d@example.com", i+1),
			time.Now().AddDate(0, 0, -rng.Intn(365)))
	}
	query := "INSERT INTO users (name, email, created_at) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return err
	}

	prefRows := []string{}
	prefArgs := []any{}
	allergyRows := []string{}
	allergyArgs := []any{}

	for i := range n {
		userID := int64(i + 1)
		picked := pickDistinct(rng, ingredientNames, 2+rng.Intn(3)+rng.Intn(3))
		likes := 2 + rng.Intn(2)
		if likes > len(picked) {
			likes = len(picked)
		}
		for j, name := range picked {
			kind := "like"
			if j >= likes {
				kind = "dislike"
			}
			base := len(prefArgs)
			prefRows = append(prefRows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			prefArgs = append(prefArgs, userID, name, kind)
		}

		if rng.Float64() < 0.3 {
			base := len(allergyArgs)
			allergyRows = append(allergyRows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
			allergyArgs = append(allergyArgs, userID, allergens[rng.Intn(len(allergens))])
		}
	}

	if len(prefRows) > 0 {
		query = "INSERT INTO user_preferences (user_id, ingredient_name, kind) VALUES " + strings.Join(prefRows, ", ")
		if _, err := pool.Exec(ctx, query, prefArgs...); err != nil {
			return err
		}
	}
	if len(allergyRows) > 0 {
		query = "INSERT INTO user_allergies (user_id, ingredient_name) VALUES " + strings.Join(allergyRows, ", ")
		if _, err := pool.Exec(ctx, query, allergyArgs...); err != nil {
			return err
		}
	}
	return nil
}

func pickDistinct(rng *rand.Rand, from []string, n int) []string {
	if n > len(from) {
		n = len(from)
	}
	perm := rng.Perm(len(from))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, from[i])
	}
	return out
}
