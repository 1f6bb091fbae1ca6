// goslam runs a uniformly random exploration agent on a ground-truth
// map, printing per-episode statistics. The belief map built by the
// agent can be watched live in a browser (-serve), rendered to a PNG
// at the end of the run (-png), and the per-episode statistics can be
// persisted to a SQLite database (-db).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/samuelfneumann/goslam/agent/random"
	"github.com/samuelfneumann/goslam/environment"
	"github.com/samuelfneumann/goslam/environment/slam"
	"github.com/samuelfneumann/goslam/experiment"
	"github.com/samuelfneumann/goslam/experiment/tracker"
	"github.com/samuelfneumann/goslam/render"
	"github.com/samuelfneumann/goslam/server"
)

func main() {
	var (
		mapFile  = flag.String("map", "maps/rooms.txt", "ground-truth map file")
		episodes = flag.Int("episodes", 10, "number of episodes to run")
		cutoff   = flag.Int("cutoff", 500,
			"maximum steps per episode (0 disables the limit)")
		seed     = flag.Uint64("seed", 192382, "seed for the action policy")
		discount = flag.Float64("discount", 1.0, "discount factor")
		data     = flag.String("data", "returns.bin",
			"file to save episodic returns to")
		db = flag.String("db", "",
			"SQLite database to record per-episode statistics in (optional)")
		addr = flag.String("serve", "",
			"address to serve the live belief-map view on, e.g. :8080 "+
				"(optional)")
		png = flag.String("png", "",
			"file to render the final belief map to (optional)")
		randomStart = flag.Bool("randomstart", false,
			"start each episode from a random empty cell instead of the "+
				"first one")
	)
	flag.Parse()

	grid, err := slam.LoadGridMap(*mapFile)
	if err != nil {
		log.Fatalf("could not load map: %v", err)
	}

	var starter environment.Starter
	if *randomStart {
		starter, err = slam.NewRandomEmptyStarter(grid, *seed)
		if err != nil {
			log.Fatalf("could not create starter: %v", err)
		}
	}

	task := slam.NewExplore(*cutoff)
	e, _, err := slam.NewWithStarter(task, grid, starter, *discount)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}

	a, err := random.New(e, *seed)
	if err != nil {
		log.Fatalf("could not create agent: %v", err)
	}

	returns := tracker.NewReturn(*data)
	trackers := []tracker.Tracker{returns}

	if *db != "" {
		results, err := tracker.NewResults(*db)
		if err != nil {
			log.Fatalf("could not open results database: %v", err)
		}
		defer results.Close()
		trackers = append(trackers, results)
	}

	done := make(chan struct{})
	defer close(done)
	if *addr != "" {
		pub := server.NewPublisher(e, 256)
		trackers = append(trackers, pub)

		view := server.New(*addr, pub.Frames(), done)
		go func() {
			if err := view.Serve(); err != nil {
				log.Printf("live view: %v", err)
			}
		}()
		fmt.Printf("live view on http://localhost%v\n", *addr)
	}

	// Total timestep budget across all episodes
	budget := ^uint(0)
	if *cutoff > 0 {
		budget = uint(*episodes) * uint(*cutoff)
	}
	exp := experiment.NewOnline(e, a, budget, trackers...)

	rows, cols := grid.Dims()
	fmt.Printf("Active SLAM | map %v (%dx%d) | %d episodes\n",
		*mapFile, rows, cols, *episodes)

	for ep := 0; ep < *episodes; ep++ {
		ended, err := exp.RunEpisode()
		if err != nil {
			log.Fatalf("episode %d: %v", ep+1, err)
		}

		// The return tracker only reports completed episodes; the
		// last episode may have been truncated by the budget.
		ret := math.NaN()
		if rets := returns.Returns(); len(rets) > ep {
			ret = rets[ep]
		}

		step := e.CurrentTimeStep()
		fmt.Printf("episode %d/%d: %d steps, return %.2f, "+
			"coverage %.1f%% (%v)\n", ep+1, *episodes, step.Number, ret,
			e.Coverage()*100, step.End())

		if ended {
			break
		}
	}
	exp.Save()

	if *png != "" {
		if err := render.NewRenderer(24).SavePNG(render.Snapshot(e),
			*png); err != nil {
			log.Printf("could not render final belief map: %v", err)
		}
	}
}
