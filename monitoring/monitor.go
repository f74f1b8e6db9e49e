package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/entsimlab/entsim/sim"
)

// An EntityLister exposes the entities currently active in a simulation.
type EntityLister interface {
	ActiveEntities() []*sim.Entity
}

// A QueueStatsProvider exposes the state of an engine's event queue.
type QueueStatsProvider interface {
	QueueLen() int
	NextEventTime() sim.VTimeInTick
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	queueStats QueueStatsProvider
	entities   EntityLister

	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor page in the default
// browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e

	if stats, ok := e.(QueueStatsProvider); ok {
		m.queueStats = stats
	}
}

// RegisterEntityLister registers the source of the active entity set.
func (m *Monitor) RegisterEntityLister(l EntityLister) {
	m.entities = l
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:    sim.GetIDGenerator().Generate(),
		Name:  name,
		Total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/queue", m.queue)
	r.HandleFunc("/api/list_entities", m.listEntities)
	r.HandleFunc("/api/entity/{id}", m.listEntityDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		go func() {
			_ = browser.OpenURL(url)
		}()
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.engine.Run()
		if err != nil {
			panic(err)
		}
	}()
}

func (m *Monitor) queue(w http.ResponseWriter, _ *http.Request) {
	if m.queueStats == nil {
		w.WriteHeader(404)
		return
	}

	nextTime := int64(m.queueStats.NextEventTime())
	fmt.Fprintf(w, "{\"length\":%d,\"next_time\":%d}",
		m.queueStats.QueueLen(), nextTime)
}

type entityInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (m *Monitor) listEntities(w http.ResponseWriter, _ *http.Request) {
	infos := []entityInfo{}
	if m.entities != nil {
		for _, e := range m.entities.ActiveEntities() {
			infos = append(infos, entityInfo{ID: e.ID(), Name: e.Name()})
		}
	}

	err := json.NewEncoder(w).Encode(infos)
	dieOnErr(err)
}

func (m *Monitor) listEntityDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entity := m.findEntityOr404(w, id)
	if entity == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(entity)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findEntityOr404(
	w http.ResponseWriter,
	id string,
) *sim.Entity {
	if m.entities != nil {
		for _, e := range m.entities.ActiveEntities() {
			if e.ID() == id {
				return e
			}
		}
	}

	w.WriteHeader(404)
	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	err := json.NewEncoder(w).Encode(m.progressBars)
	dieOnErr(err)
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	fmt.Fprintf(w, "{\"cpu_percent\":%f,\"memory_rss\":%d}",
		cpuPercent, memInfo.RSS)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
