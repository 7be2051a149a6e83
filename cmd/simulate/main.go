package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/schedule"
)

// Load generator for the front-office API: signs in, pulls the doctor and
// patient pools, then hammers the booking lifecycle with a configurable
// operation mix and reports latencies at the end.

type SimConfig struct {
	APIBaseURL      string
	Email           string
	Password        string
	Duration        time.Duration
	Workers         int
	BookingRatio    float64
	CancelRatio     float64
	RescheduleRatio float64
}

type DataPool struct {
	Doctors  []clinic.Doctor
	Patients []clinic.ID

	mu           sync.RWMutex
	appointments []clinic.ID
}

func (dp *DataPool) AddAppointment(id clinic.ID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) GetRandomAppointment(rng *rand.Rand) (clinic.ID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	mu        sync.Mutex
	Latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := append([]time.Duration(nil), om.Latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, l := range sorted {
		total += l
	}
	avg = total / time.Duration(len(sorted))
	min = sorted[0]
	max = sorted[len(sorted)-1]
	p50 = sorted[len(sorted)/2]
	p95 = sorted[len(sorted)*95/100]
	return avg, min, max, p50, p95
}

type Simulator struct {
	cfg     SimConfig
	client  *http.Client
	token   string
	pool    *DataPool
	book    OperationMetrics
	cancel  OperationMetrics
	resched OperationMetrics
	list    OperationMetrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulate starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	sim := &Simulator{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}

	if err := sim.login(); err != nil {
		log.Fatalf("login: %v", err)
	}
	pool, err := sim.loadDataPool()
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}
	sim.pool = pool
	log.Printf("pool loaded: %d doctors, %d patients", len(pool.Doctors), len(pool.Patients))

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	return SimConfig{
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8080"), "/"),
		Email:           os.Getenv("SIM_EMAIL"),
		Password:        os.Getenv("SIM_PASSWORD"),
		Duration:        getDuration("SIM_DURATION", time.Minute),
		Workers:         getInt("SIM_WORKERS", 8),
		BookingRatio:    getFloat("SIM_BOOKING_RATIO", 0.4),
		CancelRatio:     getFloat("SIM_CANCEL_RATIO", 0.15),
		RescheduleRatio: getFloat("SIM_RESCHEDULE_RATIO", 0.15),
	}
}

func validateConfig(cfg SimConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return fmt.Errorf("SIM_EMAIL and SIM_PASSWORD are required")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be positive")
	}
	if cfg.BookingRatio+cfg.CancelRatio+cfg.RescheduleRatio > 1.0 {
		return fmt.Errorf("operation ratios must sum to at most 1.0")
	}
	return nil
}

func (s *Simulator) login() error {
	body, _ := json.Marshal(map[string]string{"email": s.cfg.Email, "password": s.cfg.Password})
	resp, err := s.client.Post(s.cfg.APIBaseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (%d): %s", resp.StatusCode, data)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	s.token = out.Token
	return nil
}

func (s *Simulator) loadDataPool() (*DataPool, error) {
	var doctors struct {
		Available []clinic.Doctor `json:"available"`
		OnLeave   []clinic.Doctor `json:"onLeave"`
	}
	if err := s.getJSON("/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	var patients struct {
		VisitingToday []schedule.ClassifiedPatient `json:"visitingToday"`
		Recent        []schedule.ClassifiedPatient `json:"recent"`
		NoVisit       []schedule.ClassifiedPatient `json:"noVisit"`
	}
	if err := s.getJSON("/patients", &patients); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	pool := &DataPool{Doctors: doctors.Available}
	for _, group := range [][]schedule.ClassifiedPatient{patients.VisitingToday, patients.Recent, patients.NoVisit} {
		for _, p := range group {
			pool.Patients = append(pool.Patients, p.ID)
		}
	}

	if len(pool.Doctors) == 0 || len(pool.Patients) == 0 {
		return nil, fmt.Errorf("pool is empty, run the seed tool first")
	}
	return pool, nil
}

func (s *Simulator) Run() {
	log.Printf("running %d workers for %s", s.cfg.Workers, s.cfg.Duration)

	deadline := time.Now().Add(s.cfg.Duration)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(workerID, deadline)
		}(i)
	}
	wg.Wait()
}

func (s *Simulator) worker(workerID int, deadline time.Time) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for time.Now().Before(deadline) {
		roll := rng.Float64()
		switch {
		case roll < s.cfg.BookingRatio:
			s.doBooking(rng)
		case roll < s.cfg.BookingRatio+s.cfg.CancelRatio:
			s.doCancel(rng)
		case roll < s.cfg.BookingRatio+s.cfg.CancelRatio+s.cfg.RescheduleRatio:
			s.doReschedule(rng)
		default:
			s.doList()
		}

		time.Sleep(time.Duration(rng.Intn(100)) * time.Millisecond)
	}
}

func (s *Simulator) doBooking(rng *rand.Rand) {
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	slots := schedule.FilterSlots(schedule.TimeGrid(), doctor)
	if len(slots) == 0 {
		return
	}

	payload := map[string]any{
		"patientId": patient,
		"doctorId":  doctor.ID,
		"date":      time.Now().AddDate(0, 0, rng.Intn(14)).Format(clinic.DateLayout),
		"time":      slots[rng.Intn(len(slots))],
		"type":      "Consultation",
	}

	start := time.Now()
	status, body := s.postJSON("/appointments", payload)
	latency := time.Since(start)

	success := status == http.StatusCreated
	conflict := status == http.StatusConflict
	s.book.Record(latency, success, conflict)

	if success {
		var result struct {
			Appointment clinic.Appointment `json:"appointment"`
		}
		if err := json.Unmarshal(body, &result); err == nil && !result.Appointment.ID.IsZero() {
			s.pool.AddAppointment(result.Appointment.ID)
		}
	}
}

func (s *Simulator) doCancel(rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, _ := s.postJSON("/appointments/"+id.String()+"/cancel", nil)
	s.cancel.Record(time.Since(start), status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doReschedule(rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	grid := schedule.TimeGrid()
	payload := map[string]string{
		"date": time.Now().AddDate(0, 0, 1+rng.Intn(14)).Format(clinic.DateLayout),
		"time": grid[rng.Intn(len(grid))],
	}

	start := time.Now()
	status, _ := s.postJSON("/appointments/"+id.String()+"/reschedule", payload)
	s.resched.Record(time.Since(start), status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doList() {
	start := time.Now()
	var out json.RawMessage
	err := s.getJSON("/appointments", &out)
	s.list.Record(time.Since(start), err == nil, false)
}

func (s *Simulator) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, s.cfg.APIBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Simulator) postJSON(path string, payload any) (int, []byte) {
	var reader io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.APIBaseURL+path, reader)
	if err != nil {
		return 0, nil
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func (s *Simulator) PrintReport() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 72))
	printOperationReport("BOOK", &s.book)
	printOperationReport("CANCEL", &s.cancel)
	printOperationReport("RESCHEDULE", &s.resched)
	printOperationReport("LIST", &s.list)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		fmt.Printf("%-12s no operations\n", name)
		return
	}

	avg, min, max, p50, p95 := om.Stats()
	fmt.Printf("%-12s total=%d success=%d conflict=%d error=%d\n",
		name, total,
		atomic.LoadInt64(&om.Success),
		atomic.LoadInt64(&om.Conflict),
		atomic.LoadInt64(&om.Error),
	)
	fmt.Printf("%-12s avg=%s min=%s max=%s p50=%s p95=%s\n", "", avg, min, max, p50, p95)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
