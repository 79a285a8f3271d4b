package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher 配置文件监听器,文件变更后重新加载并通知回调
type Watcher struct {
	config    *Config
	viper     *viper.Viper
	callbacks []func(*Config)
	mu        sync.RWMutex
	stopped   bool
}

// NewWatcher 创建配置监听器
func NewWatcher(cfg *Config, configPath string) *Watcher {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)

	return &Watcher{
		config: cfg,
		viper:  v,
	}
}

// OnChange 注册配置变更回调
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start 启动配置监听
func (w *Watcher) Start() error {
	if err := w.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	w.viper.OnConfigChange(func(e fsnotify.Event) {
		w.reload()
	})
	w.viper.WatchConfig()
	return nil
}

// reload 重新解析配置并调用回调
func (w *Watcher) reload() {
	w.mu.RLock()
	stopped := w.stopped
	w.mu.RUnlock()
	if stopped {
		return
	}

	newCfg, err := unmarshal(w.viper)
	if err != nil {
		return
	}

	w.mu.Lock()
	w.config = newCfg
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	// 在锁外执行回调，避免死锁
	for _, callback := range callbacks {
		callback(newCfg)
	}
}

// Stop 停止配置监听
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}

// Config 获取当前配置
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}
