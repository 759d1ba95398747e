package consolidate

import "sync"

// taskGroup tracks spawned background tasks so shutdown and tests can wait
// for them.
type taskGroup struct {
	wg sync.WaitGroup
}

func (g *taskGroup) run(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

func (g *taskGroup) wait() {
	g.wg.Wait()
}
