package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/timada-org/catodo/internal/core"
	"github.com/timada-org/catodo/internal/enrich"
	"github.com/timada-org/catodo/internal/sse"
	"github.com/timada-org/catodo/internal/store"
)

type App struct {
	config *core.Config
	store  *store.Store
	auth   *core.Auth
	todos  *core.Todos
	server *sse.Server
}

func New(config *core.Config) (*App, error) {
	s, err := store.New(config.Database.DSN)
	if err != nil {
		return nil, err
	}

	server := sse.New()

	auth := core.NewAuth(s, config.JWT)

	todos := core.NewTodos(core.TodosOptions{
		Store: s,
		Facts: enrich.NewCatFacts(config.Enrich.CatFactURL),
		Weather: enrich.NewWeather(enrich.WeatherOptions{
			BaseURL:   config.Enrich.WeatherURL,
			Latitude:  config.Enrich.Latitude,
			Longitude: config.Enrich.Longitude,
		}),
		Server: server,
	})

	app := &App{
		config,
		s,
		auth,
		todos,
		server,
	}

	return app, nil
}

func (app *App) Handler() http.Handler {
	router := httprouter.New()
	router.POST("/api/auth/register", app.register())
	router.POST("/api/auth/login", app.login())
	router.GET("/api/todos", app.list())
	router.POST("/api/todos", app.create())
	router.GET("/api/events", app.events())

	return router
}

func (app *App) Listen() error {
	log.Printf("Listening on %s", app.config.Addr)

	return http.ListenAndServe(app.config.Addr, app.Handler())
}

func (app *App) Close() {
	if err := app.store.Close(); err != nil {
		log.Println(err.Error())
	}
}

func (app *App) register() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		decoder := json.NewDecoder(r.Body)
		var input RegisterInput
		if err := decoder.Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		if input.Username == "" || input.Password == "" {
			writeError(w, http.StatusBadRequest, "Username and password are required.")
			return
		}

		_, err := app.auth.Register(input.Username, input.Password)

		if errors.Is(err, core.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username already exists.")
			return
		}

		if err != nil {
			log.Println(err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully."})
	}
}

func (app *App) login() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		decoder := json.NewDecoder(r.Body)
		var input LoginInput
		if err := decoder.Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		token, err := app.auth.Login(input.Username, input.Password)

		if errors.Is(err, core.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}

		if err != nil {
			log.Println(err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		claims, err := app.auth.Claims(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		views, err := app.todos.List(r.Context(), claims.UserID)
		if err != nil {
			log.Println(err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		writeJSON(w, http.StatusOK, views)
	}
}

func (app *App) create() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		claims, err := app.auth.Claims(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		decoder := json.NewDecoder(r.Body)
		var input CreateTodoInput
		if err := decoder.Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		if input.Message == "" {
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		}

		if _, err := time.Parse(DateLayout, input.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD.")
			return
		}

		view, err := app.todos.Create(r.Context(), claims.UserID, input.Message, input.Date)
		if err != nil {
			log.Println(err.Error())
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		writeJSON(w, http.StatusCreated, view)
	}
}

func (app *App) events() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		claims, err := app.auth.Claims(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		if err := app.server.Serve(w, r, claims.UserID); err != nil {
			log.Println(err.Error())
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
