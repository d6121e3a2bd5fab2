package backend

import (
	"context"
	"net/url"
	"strconv"
)

// Movie is a catalog entry from the backend.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Synopsis    string   `json:"synopsis"`
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	RuntimeMins int      `json:"runtime_mins"`
	PosterURL   string   `json:"poster_url"`
	ReleaseDate string   `json:"release_date"`
	Status      string   `json:"status"`
}

// Cinema is a venue from the backend.
type Cinema struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Screens int    `json:"screens"`
}

// ShowtimeSummary is one row in a showtime search result.
type ShowtimeSummary struct {
	ID         string `json:"id"`
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	CinemaID   string `json:"cinema_id"`
	CinemaName string `json:"cinema_name"`
	ScreenID   string `json:"screen_id"`
	ScreenType string `json:"screen_type"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	UnitPrice  int64  `json:"unit_price"`
}

// MovieFilter narrows a movie listing.
type MovieFilter struct {
	Status string
	Genre  string
	Query  string
	Page   int
	Limit  int
}

// ListMovies fetches the movie catalog with optional filtering.
func (c *Client) ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp envelope[[]Movie]
	if err := c.getJSON(ctx, "/api/v1/movies", q, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetMovie fetches one movie by id.
func (c *Client) GetMovie(ctx context.Context, id string) (*Movie, error) {
	var resp envelope[Movie]
	if err := c.getJSON(ctx, "/api/v1/movies/"+id, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListCinemas fetches all venues.
func (c *Client) ListCinemas(ctx context.Context) ([]Cinema, error) {
	var resp envelope[[]Cinema]
	if err := c.getJSON(ctx, "/api/v1/cinemas", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ShowtimeFilter narrows a showtime search.
type ShowtimeFilter struct {
	MovieID  string
	CinemaID string
	Date     string
}

// ListShowtimes searches scheduled screenings.
func (c *Client) ListShowtimes(ctx context.Context, filter ShowtimeFilter) ([]ShowtimeSummary, error) {
	q := url.Values{}
	if filter.MovieID != "" {
		q.Set("movie", filter.MovieID)
	}
	if filter.CinemaID != "" {
		q.Set("cinema", filter.CinemaID)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}

	var resp envelope[[]ShowtimeSummary]
	if err := c.getJSON(ctx, "/api/v1/showtimes", q, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
