package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rybuild/internal/adapters/watcher"
)

type calls struct {
	mu    sync.Mutex
	paths [][]string
}

func (c *calls) record(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, paths)
}

func (c *calls) get() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/m/UI/Source/Window.cpp")
		time.Sleep(50 * time.Millisecond)
		d.Add("/m/UI/Source/Button.cpp")
		d.Add("/m/UI/Source/Window.cpp")

		time.Sleep(90 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, c.get(), "window restarts on every change")

		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"/m/UI/Source/Button.cpp", "/m/UI/Source/Window.cpp"}}, c.get())
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("a.cpp")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("b.cpp")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"a.cpp"}, {"b.cpp"}}, c.get())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(time.Hour, c.record)

		d.Add("a.h")
		d.Flush()
		assert.Equal(t, [][]string{{"a.h"}}, c.get())

		d.Flush()
		assert.Len(t, c.get(), 1, "flush without pending paths does nothing")
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("a.cpp")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
	})
}
