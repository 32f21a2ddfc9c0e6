package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/auth"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64
	Lon float64
}

// Cities breakdowns are spread around
var cities = []Location{
	{Lat: 19.0760, Lon: 72.8777}, // Mumbai
	{Lat: 18.5204, Lon: 73.8567}, // Pune
	{Lat: 28.6139, Lon: 77.2090}, // Delhi
	{Lat: 12.9716, Lon: 77.5946}, // Bengaluru
	{Lat: 13.0827, Lon: 80.2707}, // Chennai
	{Lat: 17.3850, Lon: 78.4867}, // Hyderabad
	{Lat: 23.0225, Lon: 72.5714}, // Ahmedabad
	{Lat: 22.5726, Lon: 88.3639}, // Kolkata
	{Lat: 26.9124, Lon: 75.7873}, // Jaipur
	{Lat: 21.1458, Lon: 79.0882}, // Nagpur
}

var serviceTypes = []models.ServiceType{
	models.ServiceMechanic,
	models.ServiceTowing,
	models.ServiceFuel,
	models.ServiceMedical,
}

// average worker speed used for ETA estimates
const workerSpeedKmh = 30.0

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

func haversineKm(a, b Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

// travelTime estimates how long a worker at from needs to reach to.
// Never less than five minutes.
func travelTime(from, to Location) time.Duration {
	d := time.Duration(haversineKm(from, to) / workerSpeedKmh * float64(time.Hour))
	if d < 5*time.Minute {
		d = 5 * time.Minute
	}
	return d.Round(time.Minute)
}

func randomMobile() string {
	return fmt.Sprintf("9%09d", rand.Intn(1_000_000_000))
}

// --- API client ---

// apiError is a non-2xx response from the API
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends body as JSON and decodes the response into out
func (c *apiClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
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

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// --- Scenarios ---

// Outcome tallies how simulated breakdowns ended.
type Outcome struct {
	mu     sync.Mutex
	counts map[models.RequestStatus]int
	failed int
}

func newOutcome() *Outcome {
	return &Outcome{counts: make(map[models.RequestStatus]int)}
}

func (o *Outcome) record(status models.RequestStatus, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed++
		return
	}
	o.counts[status]++
}

func (o *Outcome) fields() log.Fields {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := log.Fields{"failed": o.failed}
	for status, n := range o.counts {
		f[string(status)] = n
	}
	return f
}

// Simulator plays a mechanic, the mechanic's workers and the users
// who break down.
type Simulator struct {
	client        *apiClient
	tokens        *auth.Service
	mechanicID    string
	mechanicToken string
	cancelRate    float64
	rejectRate    float64
}

// NewSimulator mints the mechanic's token with tokens.
func NewSimulator(client *apiClient, tokens *auth.Service, mechanicID string) (*Simulator, error) {
	token, err := tokens.GenerateToken(models.Claims{SubjectID: mechanicID, Role: models.RoleMechanic})
	if err != nil {
		return nil, err
	}
	return &Simulator{
		client:        client,
		tokens:        tokens,
		mechanicID:    mechanicID,
		mechanicToken: token,
		cancelRate:    0.1,
		rejectRate:    0.1,
	}, nil
}

// SimWorker is a roster worker with its token and home base.
type SimWorker struct {
	models.Worker
	Token string
	Base  Location
}

// AddWorker registers a worker on the mechanic's roster.
func (s *Simulator) AddWorker(ctx context.Context, name string, base Location) (*SimWorker, error) {
	var resp struct {
		Worker models.Worker `json:"worker"`
	}
	input := models.CreateWorkerInput{Name: name, MobileNumber: randomMobile()}
	if err := s.client.do(ctx, http.MethodPost, "/api/mechanic/workers", s.mechanicToken, input, &resp); err != nil {
		return nil, fmt.Errorf("add worker: %w", err)
	}

	token, err := s.tokens.GenerateToken(models.Claims{
		SubjectID:    resp.Worker.ID.Hex(),
		Role:         models.RoleWorker,
		MobileNumber: resp.Worker.MobileNumber,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"worker_id": resp.Worker.ID.Hex(),
		"name":      name,
	}).Info("Added worker")
	return &SimWorker{Worker: resp.Worker, Token: token, Base: base}, nil
}

func (s *Simulator) setStatus(ctx context.Context, requestID string, status models.RequestStatus, eta *time.Time) error {
	input := models.StatusUpdateInput{Status: status, EstimatedArrivalTime: eta}
	return s.client.do(ctx, http.MethodPatch, "/api/mechanic/requests/"+requestID+"/status", s.mechanicToken, input, nil)
}

// Breakdown plays one service request from creation to its final status.
func (s *Simulator) Breakdown(ctx context.Context, worker *SimWorker, roll float64) (models.RequestStatus, error) {
	userToken, err := s.tokens.GenerateToken(models.Claims{SubjectID: primitive.NewObjectID().Hex(), Role: models.RoleUser})
	if err != nil {
		return "", err
	}

	at := jitterLocation(worker.Base, 8000)
	lat, lon := at.Lat, at.Lon
	create := models.CreateRequestInput{
		MechanicID:  s.mechanicID,
		VehicleID:   primitive.NewObjectID().Hex(),
		ServiceType: serviceTypes[rand.Intn(len(serviceTypes))],
		Description: "Simulated breakdown",
		Location: &models.LocationInput{
			Latitude:  &lat,
			Longitude: &lon,
			Address:   fmt.Sprintf("Near %.4f, %.4f", lat, lon),
		},
	}
	var created struct {
		Request models.ServiceRequest `json:"request"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/user/services/requests", userToken, create, &created); err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	requestID := created.Request.ID.Hex()
	logger := log.WithFields(log.Fields{"request_id": requestID, "worker_id": worker.ID.Hex()})

	switch {
	case roll < s.cancelRate:
		if err := s.client.do(ctx, http.MethodPost, "/api/user/services/requests/"+requestID+"/cancel", userToken, nil, nil); err != nil {
			return "", fmt.Errorf("cancel request: %w", err)
		}
		logger.Info("User cancelled request")
		return models.StatusCancelled, nil
	case roll < s.cancelRate+s.rejectRate:
		if err := s.setStatus(ctx, requestID, models.StatusRejected, nil); err != nil {
			return "", fmt.Errorf("reject request: %w", err)
		}
		logger.Info("Mechanic rejected request")
		return models.StatusRejected, nil
	}

	assign := models.AssignWorkerInput{WorkerID: worker.ID.Hex(), RequestID: requestID}
	if err := s.client.do(ctx, http.MethodPost, "/api/mechanic/assign-worker", s.mechanicToken, assign, nil); err != nil {
		return "", fmt.Errorf("assign worker: %w", err)
	}

	eta := time.Now().Add(travelTime(worker.Base, at))
	if err := s.setStatus(ctx, requestID, models.StatusOnTheWay, &eta); err != nil {
		return "", fmt.Errorf("depart: %w", err)
	}
	if err := s.setStatus(ctx, requestID, models.StatusInProgress, nil); err != nil {
		return "", fmt.Errorf("start work: %w", err)
	}

	var current struct {
		CurrentTask *models.ServiceRequest `json:"currentTask"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/worker/current-task", worker.Token, nil, &current); err != nil {
		return "", fmt.Errorf("current task: %w", err)
	}
	if current.CurrentTask == nil || current.CurrentTask.ID.Hex() != requestID {
		return "", errors.New("worker does not hold the assigned request")
	}

	if err := s.client.do(ctx, http.MethodPost, "/api/worker/tasks/"+requestID+"/complete", worker.Token, nil, nil); err != nil {
		return "", fmt.Errorf("complete task: %w", err)
	}
	logger.WithField("eta", eta.Format(time.Kitchen)).Info("Worker completed request")
	return models.StatusCompleted, nil
}

// runWorker plays breakdowns for one worker until n are done or ctx ends.
func (s *Simulator) runWorker(ctx context.Context, worker *SimWorker, n int, interval time.Duration, outcome *Outcome) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for i := 0; i < n; i++ {
		status, err := s.Breakdown(ctx, worker, rand.Float64())
		if err != nil && ctx.Err() == nil {
			log.WithError(err).WithField("worker_id", worker.ID.Hex()).Error("Breakdown scenario failed")
		}
		outcome.record(status, err)

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return n
		}
	}
	return def
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key"
	}
	mechanicID := os.Getenv("SIM_MECHANIC_ID")
	if mechanicID == "" {
		mechanicID = primitive.NewObjectID().Hex()
	}
	workerCount := envInt("SIM_WORKERS", 3)
	breakdowns := envInt("SIM_BREAKDOWNS", 5)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2)) * time.Second

	tokens, err := auth.NewService(secret, time.Hour)
	if err != nil {
		log.WithError(err).Fatal("Failed to create token service")
	}
	sim, err := NewSimulator(newAPIClient(apiURL), tokens, mechanicID)
	if err != nil {
		log.WithError(err).Fatal("Failed to create simulator")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_url":     apiURL,
		"mechanic_id": mechanicID,
		"workers":     workerCount,
		"breakdowns":  breakdowns,
		"interval":    interval,
	}).Info("Starting roadside simulation")

	workers := make([]*SimWorker, 0, workerCount)
	for i := 0; i < workerCount; i++ {
		base := jitterLocation(cities[rand.Intn(len(cities))], 2000)
		w, err := sim.AddWorker(ctx, fmt.Sprintf("Worker %d", i+1), base)
		if err != nil {
			log.WithError(err).Error("Failed to add worker")
			continue
		}
		workers = append(workers, w)
	}
	if len(workers) == 0 {
		log.Error("No workers added. Ensure JWT_SECRET matches the API and the API is reachable. Exiting.")
		return
	}

	outcome := newOutcome()
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *SimWorker) {
			defer wg.Done()
			sim.runWorker(ctx, w, breakdowns, interval, outcome)
		}(w)
	}
	wg.Wait()

	log.WithFields(outcome.fields()).Info("Simulation finished")
}
