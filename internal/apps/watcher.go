package apps

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 监听清单文件变更并刷新应用清单
// 刷新失败时保留旧清单,只有进程启动时的首次加载才是致命的
type Watcher struct {
	path    string
	list    *List
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher 创建清单文件监听
// 监听文件所在目录而不是文件本身,编辑器的改名保存不会丢事件
func NewWatcher(path string, list *List, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		list:    list,
		watcher: fw,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// loop 事件处理循环
func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("apps file watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// reload 重新加载清单,失败时保留旧清单
func (w *Watcher) reload() {
	apps, err := Load(w.path, w.logger)
	if err != nil {
		w.logger.Warn("failed to reload apps file, keeping previous list",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.list.Replace(apps)
	w.logger.Info("apps file reloaded",
		zap.String("path", w.path), zap.Int("apps", len(apps)))
}

// Close 停止监听
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
