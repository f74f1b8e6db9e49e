package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/entsimlab/entsim/sim"
	"github.com/entsimlab/entsim/simulation"
)

// logTopicScenario is the topic used by the log behavior.
const logTopicScenario = "scenario"

var runFlags = struct {
	lenient     bool
	monitor     bool
	monitorPort int
	browser     bool
	output      string
	logTopics   []string
}{}

var runCmd = &cobra.Command{
	Use:   "run [scenario file]",
	Short: "Run the simulation described by a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.lenient, "lenient", false,
		"skip the strict scheduling validation checks")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"start the monitoring server")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port of the monitoring server")
	runCmd.Flags().BoolVar(&runFlags.browser, "browser", false,
		"open the monitoring page in the default browser")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "",
		"output file name for the recording database")
	runCmd.Flags().StringSliceVar(&runFlags.logTopics, "log-topic", nil,
		"log topics to enable, in addition to the scenario's")

	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := LoadScenario(args[0])
	if err != nil {
		return err
	}

	logger := sim.NewTopicLogger(log.New(os.Stderr, "", log.LstdFlags))
	logger.EnableTopic(logTopicScenario)
	for _, topic := range sc.LogTopics {
		logger.EnableTopic(topic)
	}
	for _, topic := range runFlags.logTopics {
		logger.EnableTopic(topic)
	}

	s := buildSimulation(sc, logger)
	defer s.Terminate()

	if err := populate(s, sc, logger); err != nil {
		return err
	}

	if err := s.Run(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"simulation %s finished at tick %d\n",
		s.ID(), s.GetEngine().CurrentTime())

	return nil
}

func buildSimulation(
	sc *Scenario,
	logger *sim.TopicLogger,
) *simulation.Simulation {
	b := simulation.MakeBuilder().
		WithPriorityPatterns(sc.Priorities...).
		WithTopicLogger(logger)

	if runFlags.lenient {
		b = b.WithLenientValidation()
	}

	if runFlags.monitor {
		if runFlags.monitorPort > 0 {
			b = b.WithMonitorPort(runFlags.monitorPort)
		}
		if runFlags.browser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if runFlags.output != "" {
		b = b.WithOutputFileName(runFlags.output)
	}

	return b.Build()
}

func populate(
	s *simulation.Simulation,
	sc *Scenario,
	logger *sim.TopicLogger,
) error {
	descs := map[string]*sim.EntityDescription{}
	for _, t := range sc.Templates {
		desc, err := buildTemplate(s, logger, t)
		if err != nil {
			return err
		}
		descs[t.Name] = desc
	}

	for _, espec := range sc.Entities {
		count := espec.Count
		if count < 1 {
			count = 1
		}

		for i := 0; i < count; i++ {
			s.CreateEntity(descs[espec.Template],
				sim.Properties(espec.Overrides))
		}
	}

	for _, evspec := range sc.Events {
		evt := sim.NewEvent(evspec.Name)
		for k, v := range evspec.Props {
			evt.WithProp(k, v)
		}

		if err := s.ScheduleAt(evt,
			sim.VTimeInTick(evspec.Time)); err != nil {
			return err
		}
	}

	return nil
}

func buildTemplate(
	s *simulation.Simulation,
	logger *sim.TopicLogger,
	spec TemplateSpec,
) (*sim.EntityDescription, error) {
	desc := sim.NewEntityDescription(spec.Name)
	for k, v := range spec.Defaults {
		desc.SetDefault(k, v)
	}

	for _, b := range spec.Behaviors {
		if err := desc.RegisterEventHandler(
			b.On, buildBehavior(s, logger, b)); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

func buildBehavior(
	s *simulation.Simulation,
	logger *sim.TopicLogger,
	spec BehaviorSpec,
) sim.EventHandlerFunc {
	switch spec.Do {
	case "log":
		return func(self *sim.Entity, evt *sim.Event) error {
			logger.Log(logTopicScenario, fmt.Sprintf(
				"%s (id %s) received %s at tick %d",
				self.Name(), self.ID(), evt.Name(), evt.Time()))
			return nil
		}
	case "count":
		prop := spec.Arg
		if prop == "" {
			prop = "count"
		}
		return func(self *sim.Entity, evt *sim.Event) error {
			current, _ := self.Props[prop].(int)
			self.Props[prop] = current + 1
			return nil
		}
	case "emit":
		return func(self *sim.Entity, evt *sim.Event) error {
			return s.Schedule(sim.NewEvent(spec.Arg))
		}
	default:
		panic(fmt.Sprintf("unknown behavior %q", spec.Do))
	}
}
