package simulation

import (
	"github.com/rs/xid"

	"github.com/entsimlab/entsim/datarecording"
	"github.com/entsimlab/entsim/monitoring"
	"github.com/entsimlab/entsim/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	priorityPatterns []string
	lenient          bool
	monitorOn        bool
	monitorPort      int
	browserOn        bool
	outputFileName   string
	logger           *sim.TopicLogger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
	}
}

// WithPriorityPatterns sets the priority pattern list used to order
// same-tick events, highest priority first.
func (b Builder) WithPriorityPatterns(patterns ...string) Builder {
	b.priorityPatterns = patterns
	return b
}

// WithLenientValidation builds the event queue without the strict
// precondition checks, trusting the caller for throughput.
func (b Builder) WithLenientValidation() Builder {
	b.lenient = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page in the default browser on start.
func (b Builder) WithBrowser() Builder {
	b.browserOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithTopicLogger sets the topic logger that the engine and the dispatch
// supervisor report through.
func (b Builder) WithTopicLogger(l *sim.TopicLogger) Builder {
	b.logger = l
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.browserOn {
		panic("browser cannot be opened when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		entityIndex: map[string]int{},
	}

	s.id = xid.New().String()
	s.logger = b.logger
	s.supervisor = sim.NewSupervisor(s.logger)

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "entsim_" + s.id
	}
	s.dataRecorder = datarecording.NewDataRecorder(outputPath)
	s.dataRecorder.CreateTable(executedEventTableName, executedEvent{})
	s.runRecorder = datarecording.NewRunRecorder(s.dataRecorder)
	s.runRecorder.Start(s.id)

	s.engine = b.buildEngine(s)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.browserOn {
			s.monitor.WithBrowser()
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterEntityLister(s)
		s.monitor.StartServer()
	}

	return s
}

func (b Builder) buildEngine(s *Simulation) *sim.SerialEngine {
	newQueue := sim.NewStrictTimedQueue
	if b.lenient {
		newQueue = sim.NewTimedQueue
	}

	queue, err := newQueue(b.priorityPatterns)
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngineWithQueue(queue)
	engine.RegisterLogger(s.logger)
	engine.RegisterRouter(s)
	engine.AcceptHook(sim.NewEventLogger(s.logger))

	return engine
}
