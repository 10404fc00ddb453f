// Command seed fills a running vendor portal with demo vendors, products and
// reviews through its public HTTP API, so averages are computed the same way
// as for real traffic.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	pkgconfig "github.com/ShaikhZaamir/vendor-portal/pkg/config"
	"github.com/ShaikhZaamir/vendor-portal/pkg/logger"
)

type seedConfig struct {
	BaseURL  string `env:"SEED_BASE_URL" envDefault:"http://localhost:8080"`
	Password string `env:"SEED_PASSWORD" envDefault:"demo-password"`
	Reviews  int    `env:"SEED_REVIEWS_PER_VENDOR" envDefault:"4"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// errConflict marks a 409, which seeding treats as "already there".
var errConflict = errors.New("already exists")

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

type client struct {
	base string
	http *http.Client
}

func (c *client) do(ctx context.Context, method, path, token string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusConflict {
		return errConflict
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}

// --------------------------------------------------------------------------
// Seed data definitions
// --------------------------------------------------------------------------

type vendorDef struct {
	Name     string
	Owner    string
	Email    string
	Contact  string
	Category string
	City     string
	About    string
	Products []productDef
}

type productDef struct {
	Name  string
	Price string
}

var vendors = []vendorDef{
	{"Acme Prints", "Asha Rao", "asha@acme-prints.test", "+91 98000 00001", "Printing", "Pune",
		"Banners, flyers and large-format prints.",
		[]productDef{{"Vinyl banner", "1499.50"}, {"A5 flyers (500)", "899"}, {"Roll-up stand", ""}}},
	{"Bright Events", "Kunal Mehta", "kunal@brightevents.test", "+91 98000 00002", "Events", "Mumbai",
		"Corporate events and product launches.",
		[]productDef{{"Launch package", "45000"}, {"Stage lighting", "12000"}}},
	{"Green Leaf Catering", "Meera Iyer", "meera@greenleaf.test", "+91 98000 00003", "Catering", "Bengaluru",
		"Vegetarian catering for offices.",
		[]productDef{{"Lunch box", "250"}, {"Buffet (per head)", "650"}}},
	{"Pixel Studio", "Rahul Das", "rahul@pixelstudio.test", "+91 98000 00004", "Design", "Kolkata",
		"",
		[]productDef{{"Logo design", "7500"}}},
}

var (
	clients  = []string{"Nikhil", "Sara", "Imran", "Priya", "Tom", "Fatima", "Arjun", "Leela"}
	projects = []string{"Annual meet", "Store opening", "Product launch", "Team offsite", ""}
	comments = []string{"Great work.", "On time and on budget.", "Would hire again.", "", "Good, some delays."}
)

// --------------------------------------------------------------------------
// Seeding
// --------------------------------------------------------------------------

type authResult struct {
	Vendor struct {
		ID string `json:"id"`
	} `json:"vendor"`
	Token string `json:"token"`
}

func seedVendor(ctx context.Context, c *client, cfg seedConfig, v vendorDef, log *slog.Logger) error {
	var auth authResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":        v.Name,
		"owner_name":  v.Owner,
		"email":       v.Email,
		"password":    cfg.Password,
		"contact":     v.Contact,
		"category":    v.Category,
		"city":        v.City,
		"description": v.About,
	}, &auth)
	switch {
	case errors.Is(err, errConflict):
		log.Info("vendor exists, skipping", slog.String("email", v.Email))
		return nil
	case err != nil:
		return fmt.Errorf("register %s: %w", v.Email, err)
	}

	for _, p := range v.Products {
		body := map[string]any{"name": p.Name}
		if p.Price != "" {
			body["price"] = p.Price
		}
		if err := c.do(ctx, http.MethodPost, "/api/v1/me/products", auth.Token, body, nil); err != nil {
			return fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}

	var avg json.Number
	for i := 0; i < cfg.Reviews; i++ {
		var res struct {
			AverageRating json.Number `json:"average_rating"`
		}
		err := c.do(ctx, http.MethodPost, "/api/v1/vendors/"+auth.Vendor.ID+"/reviews", "", map[string]any{
			"client_name": clients[rand.IntN(len(clients))],
			"project":     projects[rand.IntN(len(projects))],
			"rating":      2 + rand.IntN(4),
			"comment":     comments[rand.IntN(len(comments))],
		}, &res)
		if err != nil {
			return fmt.Errorf("submit review: %w", err)
		}
		avg = res.AverageRating
	}

	log.Info("vendor seeded",
		slog.String("vendor_id", auth.Vendor.ID),
		slog.String("name", v.Name),
		slog.Int("products", len(v.Products)),
		slog.String("average_rating", avg.String()),
	)
	return nil
}

func main() {
	var cfg seedConfig
	if err := pkgconfig.LoadWithDotEnv(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("vendor-portal-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := &client{base: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}
	for _, v := range vendors {
		if err := seedVendor(ctx, c, cfg, v, log); err != nil {
			log.Error("seeding failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	log.Info("seed complete", slog.Int("vendors", len(vendors)))
}
