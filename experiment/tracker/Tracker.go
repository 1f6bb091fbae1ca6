// Package tracker provides trackers which cache data generated during
// an experiment and save it once the experiment is done
package tracker

import (
	"encoding/gob"
	"log"
	"os"

	ts "github.com/samuelfneumann/goslam/timestep"
)

// Tracker caches data from the TimeSteps of an experiment and saves
// the cached data once the experiment finishes. Experiments send every
// TimeStep to each of their Trackers through Track(); each Tracker
// decides which data it keeps.
//
// Note: an episode must finish for episodic Trackers to record it. If
// the last episode in an experiment does not finish, that episode's
// data is not saved.
type Tracker interface {
	Track(t ts.TimeStep)
	Save()
}

// LoadData loads and returns float64 tracker data saved in filename
func LoadData(filename string) []float64 {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("could not open data file: %v", err)
	}
	defer file.Close()

	var data []float64
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&data); err != nil {
		log.Fatalf("could not decode data file: %v", err)
	}
	return data
}

// saveData gob-encodes float64 tracker data to filename
func saveData(filename string, data []float64) {
	file, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(data); err != nil {
		log.Fatalf("could not encode tracker data: %v", err)
	}
}
