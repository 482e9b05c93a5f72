package core

import (
	"context"
	"errors"
	"sync"

	"github.com/timada-org/catodo/internal/enrich"
	"github.com/timada-org/catodo/internal/sse"
	"github.com/timada-org/catodo/internal/store"
)

// Fallback texts substituted when an enrichment call cannot produce a value.
// Enrichment failures never reach the caller in any other form.
const (
	FactFallbackNetwork    = "Could not fetch cat fact due to network error."
	FactFallbackUnexpected = "Could not fetch cat fact due to an unexpected error."
	FactFallbackEmpty      = "Could not fetch cat fact."

	WeatherFallbackNetwork    = "Could not fetch weather due to network error."
	WeatherFallbackUnexpected = "Could not fetch weather due to an unexpected error."
)

// TodoView is what callers get back: the stored item plus a weather
// description computed fresh on every call, never persisted.
type TodoView struct {
	ID                 uint64 `json:"id"`
	Message            string `json:"message"`
	Date               string `json:"date"`
	CatFact            string `json:"cat_fact"`
	WeatherDescription string `json:"weather_description"`
}

type TodosOptions struct {
	Store   *store.Store
	Facts   *enrich.CatFacts
	Weather *enrich.Weather
	Server  *sse.Server
}

type Todos struct {
	store   *store.Store
	facts   *enrich.CatFacts
	weather *enrich.Weather
	server  *sse.Server
}

func NewTodos(options TodosOptions) *Todos {
	return &Todos{
		store:   options.Store,
		facts:   options.Facts,
		weather: options.Weather,
		server:  options.Server,
	}
}

// Create stores a new item for userID. The cat fact is fetched once here and
// frozen into the row; the weather in the returned view is already stale the
// moment it is rendered.
func (t *Todos) Create(ctx context.Context, userID uint64, message string, date string) (*TodoView, error) {
	todo := &store.Todo{
		UserID:  userID,
		Message: message,
		Date:    date,
		CatFact: t.catFact(ctx),
	}

	if err := t.store.CreateTodo(todo); err != nil {
		return nil, err
	}

	view := t.view(ctx, todo)

	if t.server != nil {
		t.server.Send(userID, &sse.Event{
			Name: sse.TodoCreated,
			Data: view,
		})
	}

	return view, nil
}

// List returns the user's items in insertion order, each with a current
// weather description. The weather lookups run concurrently, one per item,
// but the output keeps the store order.
func (t *Todos) List(ctx context.Context, userID uint64) ([]TodoView, error) {
	todos, err := t.store.TodosByUserID(userID)
	if err != nil {
		return nil, err
	}

	views := make([]TodoView, len(todos))

	var wg sync.WaitGroup
	for i := range todos {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i] = *t.view(ctx, &todos[i])
		}(i)
	}
	wg.Wait()

	return views, nil
}

func (t *Todos) view(ctx context.Context, todo *store.Todo) *TodoView {
	return &TodoView{
		ID:                 todo.ID,
		Message:            todo.Message,
		Date:               todo.Date,
		CatFact:            todo.CatFact,
		WeatherDescription: t.weatherDescription(ctx),
	}
}

func (t *Todos) catFact(ctx context.Context) string {
	fact, err := t.facts.Fact(ctx)

	if errors.Is(err, enrich.ErrUnavailable) {
		return FactFallbackNetwork
	}

	if err != nil {
		return FactFallbackUnexpected
	}

	if fact == "" {
		return FactFallbackEmpty
	}

	return fact
}

func (t *Todos) weatherDescription(ctx context.Context) string {
	description, err := t.weather.Description(ctx)

	if errors.Is(err, enrich.ErrUnavailable) {
		return WeatherFallbackNetwork
	}

	if err != nil {
		return WeatherFallbackUnexpected
	}

	return description
}
