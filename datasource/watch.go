package datasource

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// 既定の待ち時間
const (
	DefaultDebounce     = 100 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// Watcher はデータベースファイルの変更を監視します。
// fsnotify のイベントに加えて定期的にファイルの更新時刻とサイズを確認するため、
// イベントが届かないファイルシステムでも変更を検出できます。
type Watcher struct {
	watcher  *fsnotify.Watcher // nil の場合はポーリングのみ
	dbPath   string
	debounce time.Duration
	poll     time.Duration
	onChange chan struct{}
	done     chan struct{}

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
}

// NewWatcher は既定の設定でデータベースの監視を開始します。
func NewWatcher(dbPath string) (*Watcher, error) {
	return NewWatcherWithInterval(dbPath, DefaultDebounce, DefaultPollInterval)
}

// NewWatcherWithInterval は待ち時間を指定して監視を開始します。
// poll が0以下の場合はポーリングを行いません。
// WALのチェックポイント書き込みも拾うため親ディレクトリを監視します。
func NewWatcherWithInterval(dbPath string, debounce, poll time.Duration) (*Watcher, error) {
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	w := &Watcher{
		dbPath:   dbPath,
		debounce: debounce,
		poll:     poll,
		onChange: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	fw, err := fsnotify.NewWatcher()
	if err == nil {
		if err = fw.Add(dir); err != nil {
			fw.Close()
		} else {
			w.watcher = fw
		}
	}
	if w.watcher == nil && poll <= 0 {
		// イベントもポーリングも使えない
		return nil, err
	}

	if w.watcher != nil {
		go w.loop()
	}
	if poll > 0 {
		go w.pollLoop()
	}
	return w, nil
}

// Polling はfsnotifyが使えずポーリングのみで監視しているかを返します。
func (w *Watcher) Polling() bool {
	return w.watcher == nil
}

// Changes はデータベースが変更されたときに通知を受け取るチャネルを返します。
func (w *Watcher) Changes() <-chan struct{} {
	return w.onChange
}

// Close は監視を停止します。
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

// relevant は名前がデータベース本体・WAL・SHMのいずれかであるかを返します。
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	db := filepath.Base(w.dbPath)
	return base == db || base == db+"-wal" || base == db+"-shm"
}

// trigger は待ち時間の後に一度だけ通知します。待ち時間中の変更は1回にまとめます。
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
		case w.onChange <- struct{}{}:
		default: // already signaled, skip
		}
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// stamps はデータベース本体とWALの更新時刻とサイズを返します。
func (w *Watcher) stamps() [2]fileStamp {
	var out [2]fileStamp
	for i, p := range []string{w.dbPath, w.dbPath + "-wal"} {
		if fi, err := os.Stat(p); err == nil {
			out[i] = fileStamp{modTime: fi.ModTime(), size: fi.Size()}
		}
	}
	return out
}

func (w *Watcher) pollLoop() {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	last := w.stamps()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.stamps()
			if cur != last {
				last = cur
				w.trigger()
			}
		}
	}
}
