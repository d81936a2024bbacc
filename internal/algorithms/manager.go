package algorithms

import (
	"fmt"
	"strings"
	"sync"
)

// Name identifies a binarization approach understood by the external tool.
// The empty Name means "let the tool use its own default".
type Name string

const (
	BradleyRoth Name = "bradley-roth"
	Nick        Name = "nick"
	Sauvola     Name = "sauvola"
	Niblack     Name = "niblack"
	Bataineh    Name = "bataineh"
)

// Algorithm describes one registered approach.
type Algorithm struct {
	Name  Name
	Title string
}

type Manager struct {
	algorithms       map[Name]Algorithm
	order            []Name
	currentAlgorithm Name
	mu               sync.RWMutex
}

func NewManager() *Manager {
	manager := &Manager{
		algorithms:       make(map[Name]Algorithm),
		currentAlgorithm: BradleyRoth,
	}

	manager.registerAlgorithms()

	return manager
}

func (m *Manager) registerAlgorithms() {
	for _, alg := range []Algorithm{
		{Name: BradleyRoth, Title: "Bradley-Roth"},
		{Name: Nick, Title: "Nick"},
		{Name: Sauvola, Title: "Sauvola"},
		{Name: Niblack, Title: "Niblack"},
		{Name: Bataineh, Title: "Bataineh"},
	} {
		m.algorithms[alg.Name] = alg
		m.order = append(m.order, alg.Name)
	}
}

// Parse normalises user input and checks it against the registry.
// An empty string is accepted and yields the empty Name.
func (m *Manager) Parse(value string) (Name, error) {
	name := Name(strings.ToLower(strings.TrimSpace(value)))
	if name == "" {
		return "", nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.algorithms[name]; !exists {
		return "", fmt.Errorf("unknown algorithm: %s", value)
	}
	return name, nil
}

func (m *Manager) SetCurrentAlgorithm(algorithm Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.algorithms[algorithm]; !exists {
		return fmt.Errorf("unknown algorithm: %s", algorithm)
	}

	m.currentAlgorithm = algorithm
	return nil
}

func (m *Manager) GetCurrentAlgorithm() Name {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAlgorithm
}

func (m *Manager) GetAlgorithm(name Name) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if algorithm, exists := m.algorithms[name]; exists {
		return algorithm, nil
	}

	return Algorithm{}, fmt.Errorf("unknown algorithm: %s", name)
}

// GetAvailableAlgorithms returns the registered approaches in menu order.
func (m *Manager) GetAvailableAlgorithms() []Algorithm {
	m.mu.RLock()
	defer m.mu.RUnlock()

	algorithms := make([]Algorithm, 0, len(m.order))
	for _, name := range m.order {
		algorithms = append(algorithms, m.algorithms[name])
	}

	return algorithms
}
