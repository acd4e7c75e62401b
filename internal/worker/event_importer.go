package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/logger"
)

// EventImporter は外部フィードからイベントを取り込むインターフェース
type EventImporter interface {
	ImportEvents(ctx context.Context) (int, error)
}

// FeedImportWorker は外部イベントフィードを定期的に取り込むワーカー
type FeedImportWorker struct {
	importService EventImporter
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewFeedImportWorker は新しい取込ワーカーを作成する
func NewFeedImportWorker(is EventImporter, interval time.Duration) *FeedImportWorker {
	return &FeedImportWorker{
		importService: is,
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start はワーカーを開始する
// 起動直後に1回取込を行い、以降はintervalごとに繰り返す
func (w *FeedImportWorker) Start(ctx context.Context) {
	logger.Info("イベントフィード取込ワーカー開始",
		zap.Duration("interval", w.interval),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.runImport(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("イベントフィード取込ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("イベントフィード取込ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.runImport(ctx)
		}
	}
}

// Stop はワーカーを停止する
func (w *FeedImportWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// runImport は1回分の取込を実行する
func (w *FeedImportWorker) runImport(ctx context.Context) {
	log := logger.Get()
	log.Debug("イベントフィード取込開始")

	count, err := w.importService.ImportEvents(ctx)
	if err != nil {
		log.Error("イベントフィード取込失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("イベントを取込", zap.Int("count", count))
	} else {
		log.Debug("新規イベントなし")
	}
}
