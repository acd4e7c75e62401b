package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Engjell02/NightOut-Event-Management/internal/domain/event"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/location"
	"github.com/Engjell02/NightOut-Event-Management/internal/domain/performer"
	"github.com/Engjell02/NightOut-Event-Management/internal/infrastructure/feed"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/logger"
	"github.com/Engjell02/NightOut-Event-Management/internal/pkg/metrics"
)

// 外部フィードから取り込んだイベントの初期テーブル数
const importedEventSpots = 20

// 取込イベントが会場情報を持たない場合の既定値
const (
	defaultImportCity     = "Skopje"
	defaultImportCapacity = 500
)

// EventFeed は外部イベントフィードのインターフェース
type EventFeed interface {
	FetchEvents(ctx context.Context) ([]feed.ExternalEvent, error)
}

// ImportService は外部フィードから候補イベントを取り込む
// 既に取り込んだイベントコードはスキップし、会場・出演者は名前で照合して再利用する
type ImportService struct {
	feed          EventFeed
	eventRepo     event.Repository
	locationRepo  location.Repository
	performerRepo performer.Repository
}

// NewImportService はImportServiceを作成する
func NewImportService(f EventFeed, er event.Repository, lr location.Repository, pr performer.Repository) *ImportService {
	return &ImportService{feed: f, eventRepo: er, locationRepo: lr, performerRepo: pr}
}

// ImportEvents はフィードの全イベントを取り込み、新規作成した件数を返す
func (s *ImportService) ImportEvents(ctx context.Context) (int, error) {
	external, err := s.feed.FetchEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("フィード取得に失敗しました: %w", err)
	}

	imported := 0
	for _, ext := range external {
		created, err := s.importOne(ctx, ext)
		if err != nil {
			// 1件の失敗で取込全体を止めない
			logger.Warn("イベント取込に失敗",
				zap.String("event_code", ext.EventCode),
				zap.Error(err),
			)
			continue
		}
		if created {
			imported++
		}
	}

	if m := metrics.Get(); m != nil {
		m.ImportedEventsTotal.Add(float64(imported))
	}
	return imported, nil
}

func (s *ImportService) importOne(ctx context.Context, ext feed.ExternalEvent) (bool, error) {
	// 取込済みのコードはスキップ
	if _, err := s.eventRepo.GetByExternalCode(ctx, ext.EventCode); err == nil {
		return false, nil
	} else if !errors.Is(err, event.ErrEventNotFound) {
		return false, err
	}

	loc, err := s.findOrCreateLocation(ctx, ext.Venue)
	if err != nil {
		return false, err
	}

	var djID, mainActID *string
	if ext.DJ != nil {
		dj, err := s.findOrCreatePerformer(ctx, ext.DJ.Name, performer.TypeDJ)
		if err != nil {
			return false, err
		}
		djID = &dj.ID
	}
	if ext.MainAct != nil {
		actType := performer.TypeSinger
		if strings.Contains(ext.MainAct.Name, "Band") {
			actType = performer.TypeBand
		}
		act, err := s.findOrCreatePerformer(ctx, ext.MainAct.Name, actType)
		if err != nil {
			return false, err
		}
		mainActID = &act.ID
	}

	title, startAt, price, imageURL := eventDetailsFromCode(ext.EventCode)
	locationID := ""
	if loc != nil {
		locationID = loc.ID
	}

	e := event.NewEvent(title, startAt, price, importedEventSpots, locationID)
	e.PosterImageURL = imageURL
	e.ExternalEventCode = ext.EventCode
	e.ImportedFromAPI = true
	e.DJID = djID
	e.MainActID = mainActID
	if err := e.Validate(); err != nil {
		return false, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ImportService) findOrCreateLocation(ctx context.Context, venue *feed.ExternalVenue) (*location.Location, error) {
	if venue == nil {
		return nil, nil
	}
	loc, err := s.locationRepo.GetByName(ctx, venue.Name)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, location.ErrLocationNotFound) {
		return nil, err
	}

	loc = location.NewLocation(venue.Name, defaultImportCity, venue.Address, venue.PhoneNumber,
		determineVenueType(venue.Name), defaultImportCapacity)
	loc.ImportedFromAPI = true
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *ImportService) findOrCreatePerformer(ctx context.Context, stageName, performerType string) (*performer.Performer, error) {
	p, err := s.performerRepo.GetByStageName(ctx, stageName)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, performer.ErrPerformerNotFound) {
		return nil, err
	}

	p = performer.NewPerformer(stageName, performerType)
	p.ImportedFromAPI = true
	if err := s.performerRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// determineVenueType は会場名から種別を推定する
func determineVenueType(venueName string) string {
	name := strings.ToLower(venueName)
	switch {
	case strings.Contains(name, "club"):
		return "Club"
	case strings.Contains(name, "bar"):
		return "Bar"
	case strings.Contains(name, "lounge"):
		return "Lounge"
	case strings.Contains(name, "arena"), strings.Contains(name, "hall"):
		return "Concert Hall"
	default:
		return "Venue"
	}
}

// eventDetailsFromCode はフィードのイベントコードから開催情報を決める
// フィード自体はタイトル・日時・料金を持たないため、コードごとの既定値を使う
func eventDetailsFromCode(code string) (title string, startAt time.Time, price int, imageURL string) {
	switch code {
	case "EVENT001":
		return "Neon Nights", time.Now().AddDate(0, 0, 7), 25, "https://images.unsplash.com/photo-1516450360452-9312f5e86fc7?w=800"
	case "EVENT002":
		return "Rock Revolution", time.Now().AddDate(0, 0, 10), 45, "https://images.unsplash.com/photo-1470229722913-7c0e2dbbafd3?w=800"
	case "EVENT003":
		return "Velvet Sessions", time.Now().AddDate(0, 0, 14), 30, "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=800"
	case "EVENT004":
		return "Midnight Madness", time.Now().AddDate(0, 0, 17), 35, "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?w=800"
	}
	num := strings.TrimPrefix(code, "EVENT")
	offset := 7
	if n, err := strconv.Atoi(num); err == nil {
		offset = 7 + n*3
	}
	return "Event " + num, time.Now().AddDate(0, 0, offset), 25, "https://images.unsplash.com/photo-1516450360452-9312f5e86fc7?w=800"
}
