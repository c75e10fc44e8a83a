package i18n

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StartWatching следит за каталогом локализации и перезагружает переводы
// при изменении json-файлов. Позволяет править тексты без перезапуска бота.
func StartWatching(localesDir string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Ошибка создания наблюдателя локализации: %v", err)
		return
	}

	go func() {
		defer watcher.Close()

		var lastEvent time.Time

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".json" {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					// Редакторы пишут файл несколькими событиями подряд
					if time.Since(lastEvent) < 2*time.Second {
						continue
					}
					lastEvent = time.Now()

					log.Printf("Файл локализации изменён: %s", event.Name)
					if err := Load(localesDir); err != nil {
						log.Printf("Ошибка перезагрузки локализации: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Ошибка наблюдателя локализации: %v", err)
			}
		}
	}()

	if err := watcher.Add(localesDir); err != nil {
		log.Printf("Ошибка добавления каталога локализации в наблюдатель: %v", err)
	}
}
