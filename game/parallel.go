package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/evosoup/systems"
)

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	sensor *systems.Sensor
	inputs []float32
}

// workChunk is a range of agents for one worker; slot indexes its error.
type workChunk struct {
	start, end int
	slot       int
}

// parallelState runs the think step on persistent workers. Each agent's
// step 1 depends only on its own state and the node positions, so chunks are
// independent and the result matches the sequential path exactly.
type parallelState struct {
	scratches  []workerScratch
	errs       []error // one per chunk
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(params systems.SensorParams, inputs int) *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i] = workerScratch{
			sensor: systems.NewSensor(params),
			inputs: make([]float32, inputs),
		}
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		errs:       make([]error, numWorkers),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker(s *Simulation, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			p.errs[chunk.slot] = s.thinkRange(chunk.start, chunk.end, scratch.sensor, scratch.inputs)
			p.doneChan <- struct{}{}
		}
	}
}

// thinkParallel splits the population into at most one chunk per worker.
// On error, the error of the lowest failing chunk is returned; later chunks
// may already have advanced their agents.
func (s *Simulation) thinkParallel() error {
	n := len(s.Agents)
	if n == 0 {
		return nil
	}

	p := s.parallel
	p.startWorkers(s)

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	chunks := 0
	for start := 0; start < n; start += chunkSize {
		p.workChan <- workChunk{start: start, end: min(start+chunkSize, n), slot: chunks}
		chunks++
	}
	for range chunks {
		<-p.doneChan
	}

	for _, err := range p.errs[:chunks] {
		if err != nil {
			return err
		}
	}
	return nil
}
