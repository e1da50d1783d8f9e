package assignment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campusops/portward/internal/cipher"
)

// ExampleFileName is shown in NotFoundError messages.
const ExampleFileName = "student-port-assignments-v1.0.enc"

// versionedFile matches the auto-discovery naming convention.
var versionedFile = regexp.MustCompile(`^student-port-assignments-v(\d+)\.(\d+)\.enc$`)

// Metadata is the file-level header of the assignment store.
type Metadata struct {
	Version          string `json:"version"`
	CreatedAt        string `json:"created_at"`
	TotalAssignments int    `json:"total_assignments"`
}

// storeFile is the JSON schema of the decrypted store.
type storeFile struct {
	Version          string           `json:"version"`
	CreatedAt        string           `json:"created_at"`
	TotalAssignments int              `json:"total_assignments"`
	Assignments      []assignmentWire `json:"assignments"`
}

// assignmentWire decodes one raw store record. The first segment's bounds
// are pointers here so an absent field is distinguishable from a literal 0:
// a record without segment1 must be rejected, not read as the range 0-0.
type assignmentWire struct {
	LoginID       string    `json:"login_id"`
	Segment1Start *int      `json:"segment1_start"`
	Segment1End   *int      `json:"segment1_end"`
	Segment2Start *int      `json:"segment2_start"`
	Segment2End   *int      `json:"segment2_end"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

func (w *assignmentWire) toRecord() (*Assignment, error) {
	if w.Segment1Start == nil || w.Segment1End == nil {
		return nil, fmt.Errorf("%q: segment1_start and segment1_end are required", w.LoginID)
	}
	a := &Assignment{
		LoginID:       w.LoginID,
		Segment1Start: *w.Segment1Start,
		Segment1End:   *w.Segment1End,
		Segment2Start: w.Segment2Start,
		Segment2End:   w.Segment2End,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Registry is the authoritative, read-once view over all assignments.
// Load populates it exactly once per process; records are immutable after
// that, so concurrent readers need no further synchronization.
type Registry struct {
	// FilePath, when set, bypasses auto-discovery.
	FilePath string
	// SearchDir is scanned for versioned files when FilePath is empty.
	// Defaults to the current directory.
	SearchDir string

	mu          sync.Mutex
	loaded      bool
	assignments map[string]*Assignment
	metadata    Metadata
}

// Load reads, decrypts and parses the assignment store. It is idempotent:
// after a successful load, further calls are no-ops. A failed load leaves
// the registry unloaded so the caller may retry with a fixed file.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	path := r.FilePath
	if path == "" {
		dir := r.SearchDir
		if dir == "" {
			dir = "."
		}
		found, err := findLatestStore(dir)
		if err != nil {
			return err
		}
		path = found
	}

	slog.Debug("loading port assignments", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Dir: filepath.Dir(path)}
		}
		return fmt.Errorf("failed to read assignment file: %w", err)
	}

	plaintext, err := cipher.Decrypt(data)
	if err != nil {
		return err
	}

	var store storeFile
	if err := json.Unmarshal([]byte(plaintext), &store); err != nil {
		return fmt.Errorf("failed to parse decrypted assignment data: %w", err)
	}

	assignments := make(map[string]*Assignment, len(store.Assignments))
	for i := range store.Assignments {
		a, err := store.Assignments[i].toRecord()
		if err != nil {
			return fmt.Errorf("invalid assignment record: %w", err)
		}
		assignments[a.LoginID] = a
	}

	r.assignments = assignments
	r.metadata = Metadata{
		Version:          store.Version,
		CreatedAt:        store.CreatedAt,
		TotalAssignments: store.TotalAssignments,
	}
	r.loaded = true

	slog.Debug("port assignments loaded", "version", store.Version, "records", len(assignments))
	return nil
}

// Get returns the assignment for a login identity. Lookups are
// case-sensitive; see AuthorizationError for the near-miss behavior.
func (r *Registry) Get(loginID string) (*Assignment, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}

	if a, ok := r.assignments[loginID]; ok {
		return a, nil
	}

	for id := range r.assignments {
		if strings.EqualFold(id, loginID) {
			return nil, &AuthorizationError{LoginID: loginID, Suggestion: id}
		}
	}
	return nil, &AuthorizationError{LoginID: loginID}
}

// ListAll returns every assignment sorted by login identity.
func (r *Registry) ListAll() ([]*Assignment, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}

	all := make([]*Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LoginID < all[j].LoginID })
	return all, nil
}

// Metadata returns the file-level header of the loaded store.
func (r *Registry) Metadata() (Metadata, error) {
	if err := r.Load(); err != nil {
		return Metadata{}, err
	}
	return r.metadata, nil
}

// CurrentLogin resolves the invoking user's login identity from $USER.
func CurrentLogin() (string, error) {
	login := os.Getenv("USER")
	if login == "" {
		return "", fmt.Errorf("cannot determine current user: $USER is not set")
	}
	return login, nil
}

// findLatestStore picks the highest-versioned assignment file in dir.
func findLatestStore(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s for assignment files: %w", dir, err)
	}

	best := ""
	bestMajor, bestMinor := -1, -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := versionedFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		if major > bestMajor || (major == bestMajor && minor > bestMinor) {
			bestMajor, bestMinor = major, minor
			best = filepath.Join(dir, entry.Name())
		}
	}

	if best == "" {
		return "", &NotFoundError{Dir: dir}
	}
	return best, nil
}
