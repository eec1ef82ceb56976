package main

import (
	"net/http"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/AdamBeresnev/ski-bracket/internal/httputil"
	"github.com/AdamBeresnev/ski-bracket/internal/middleware"
	"github.com/AdamBeresnev/ski-bracket/internal/service"
	"github.com/AdamBeresnev/ski-bracket/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type services struct {
	tournaments *service.TournamentService
	matches     *service.MatchService
	settings    *service.SettingsService
}

type routerOptions struct {
	corsOrigins    []string
	rateLimitRPS   float64
	rateLimitBurst int
}

type submissionRequest struct {
	Destination    string                  `json:"destination"`
	GroupSize      int                     `json:"groupSize"`
	Accommodations []bracket.Accommodation `json:"accommodations"`
	UserID         string                  `json:"userId"`
}

type generateRequest struct {
	Destination string `json:"destination"`
}

type voteRequest struct {
	MatchID string `json:"matchId"`
	Choice  string `json:"choice"`
}

type settingsRequest struct {
	Destination        string    `json:"destination"`
	SubmissionDeadline time.Time `json:"submissionDeadline"`
	AutoStartTime      time.Time `json:"autoStartTime"`
	CreatorID          string    `json:"creatorId"`
	MinSubmissions     int       `json:"minSubmissions"`
}

func callerID(r *http.Request) string {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func newRouter(svc services, opts routerOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.UserIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Identify)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, httputil.Envelope{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	limiter := middleware.NewRateLimiter(opts.rateLimitRPS, opts.rateLimitBurst)

	r.Route("/api/tournament", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := svc.tournaments.ListTournaments(r.Context())
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.OK(w, httputil.Envelope{"tournaments": tournaments})
		})

		r.Get("/submissions", func(w http.ResponseWriter, r *http.Request) {
			submissions, err := svc.tournaments.Submissions(r.Context(), r.URL.Query().Get("destination"))
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.OK(w, httputil.Envelope{"submissions": submissions})
		})

		r.Get("/settings/{destination}", func(w http.ResponseWriter, r *http.Request) {
			view, err := svc.settings.GetSettings(r.Context(), chi.URLParam(r, "destination"))
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.OK(w, httputil.Envelope{"settings": view})
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			tournament, err := svc.tournaments.GetTournament(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.OK(w, httputil.Envelope{"tournament": tournament})
		})

		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)

			r.Post("/submissions", func(w http.ResponseWriter, r *http.Request) {
				var req submissionRequest
				if err := httputil.ReadJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, err.Error(), nil)
					return
				}
				result, err := svc.tournaments.Submit(r.Context(), service.SubmissionInput{
					Destination:    req.Destination,
					GroupSize:      req.GroupSize,
					Accommodations: req.Accommodations,
					UserID:         utils.Coalesce(req.UserID, callerID(r)),
				})
				if err != nil {
					httputil.Error(w, err)
					return
				}
				httputil.OK(w, httputil.Envelope{
					"success":          true,
					"submissionId":     result.Submission.ID,
					"totalSubmissions": result.TotalSubmissions,
				})
			})

			r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
				var req generateRequest
				if err := httputil.ReadJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, err.Error(), nil)
					return
				}
				tournament, err := svc.tournaments.Generate(r.Context(), req.Destination)
				if err != nil {
					httputil.Error(w, err)
					return
				}
				httputil.OK(w, httputil.Envelope{"success": true, "tournament": tournament})
			})

			r.Post("/{id}/vote", func(w http.ResponseWriter, r *http.Request) {
				var req voteRequest
				if err := httputil.ReadJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, err.Error(), nil)
					return
				}
				side, err := bracket.ParseSide(req.Choice)
				if err != nil {
					httputil.Error(w, err)
					return
				}
				matchup, err := svc.matches.Vote(r.Context(), chi.URLParam(r, "id"), req.MatchID, side)
				if err != nil {
					httputil.Error(w, err)
					return
				}
				httputil.OK(w, httputil.Envelope{
					"success": true,
					"match":   matchup,
					"votes1":  matchup.Votes1,
					"votes2":  matchup.Votes2,
				})
			})

			r.Post("/{id}/advance", func(w http.ResponseWriter, r *http.Request) {
				result, err := svc.matches.Advance(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.Error(w, err)
					return
				}
				body := httputil.Envelope{
					"success":      true,
					"winners":      result.Winners,
					"currentRound": result.CurrentRound,
					"status":       result.Status,
				}
				if result.Winner != nil {
					body["winner"] = result.Winner
				}
				httputil.OK(w, body)
			})

			r.Post("/settings", func(w http.ResponseWriter, r *http.Request) {
				var req settingsRequest
				if err := httputil.ReadJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, err.Error(), nil)
					return
				}
				settings, err := svc.settings.SetSettings(r.Context(), service.SettingsInput{
					Destination:        req.Destination,
					SubmissionDeadline: req.SubmissionDeadline,
					AutoStartTime:      req.AutoStartTime,
					CreatorID:          utils.Coalesce(req.CreatorID, callerID(r)),
					MinSubmissions:     req.MinSubmissions,
				})
				if err != nil {
					httputil.Error(w, err)
					return
				}
				httputil.OK(w, httputil.Envelope{"success": true, "settings": settings})
			})

			r.Post("/check-auto-start", func(w http.ResponseWriter, r *http.Request) {
				started, err := svc.settings.CheckAutoStart(r.Context())
				if err != nil {
					httputil.Error(w, err)
					return
				}
				httputil.OK(w, httputil.Envelope{"success": true, "autoStartedTournaments": started})
			})
		})
	})

	return r
}
