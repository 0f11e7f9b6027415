package api

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/dgallion1/assetree/internal/search"
)

type repoView struct {
	FullName    string
	HTMLURL     string
	Owner       string
	AvatarURL   string
	Language    string
	Stars       int
	Forks       int
	Description template.HTML
}

type indexView struct {
	Title      string
	Query      string
	PageNumber int
	Repos      []repoView
	Paginator  []search.PageLink
	Error      string
}

// handleMain renders one page of repository search results.
func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	page := s.cfg.GitHubPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		page = search.ParsePage(raw)
	}
	page = search.ClampPage(page)

	view := indexView{
		Title:      s.cfg.Name,
		Query:      s.cfg.GitHubQuery,
		PageNumber: page,
		Paginator:  search.Paginator(page),
	}

	status := http.StatusOK
	if s.search == nil {
		status = http.StatusServiceUnavailable
		view.Error = "Repository search is not configured."
	} else {
		repos, err := s.search.Search(r.Context(), search.Query{
			Q:       s.cfg.GitHubQuery,
			Page:    page,
			PerPage: s.cfg.GitHubPerPage,
		})
		if err != nil {
			s.log.Error("repository search failed", "page", page, "error", err)
			status = http.StatusBadGateway
			view.Error = "Could not load repositories, try again later."
		}
		for _, repo := range repos {
			view.Repos = append(view.Repos, repoView{
				FullName:    repo.FullName,
				HTMLURL:     repo.HTMLURL,
				Owner:       repo.Owner.Login,
				AvatarURL:   repo.Owner.AvatarURL,
				Language:    repo.Language,
				Stars:       repo.StargazersCount,
				Forks:       repo.ForksCount,
				Description: search.RenderDescription(repo.Description),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "index.html", view); err != nil {
		s.log.Error("render index", "error", err)
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	page := search.ParsePage(r.URL.Query().Get("page"))
	http.Redirect(w, r, fmt.Sprintf("/main?page=%d", search.NextPage(page)), http.StatusFound)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	page := search.ParsePage(r.URL.Query().Get("page"))
	http.Redirect(w, r, fmt.Sprintf("/main?page=%d", search.PrevPage(page)), http.StatusFound)
}
