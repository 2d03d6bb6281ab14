package arena

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"arenabook/internal/schedule"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTTL = 10 * time.Minute

func mondayHours() *WorkingHours {
	return &WorkingHours{
		ArenaID:   1,
		DayOfWeek: 0,
		OpenTime:  schedule.MustParseClock("09:00"),
		CloseTime: schedule.MustParseClock("18:00"),
	}
}

func TestCachedWorkingHoursMissThenHit(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)
	ctx := context.Background()

	wh := mondayHours()
	payload, err := json.Marshal(wh)
	require.NoError(t, err)

	rmock.ExpectGet("arena:1:v").RedisNil()
	rmock.ExpectGet("arena:1:v0:hours:0").RedisNil()
	repo.On("GetWorkingHours", mock.Anything, 1, 0).Return(wh, nil).Once()
	rmock.ExpectSet("arena:1:v0:hours:0", string(payload), testTTL).SetVal("OK")

	got, err := cached.GetWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, wh, got)

	rmock.ExpectGet("arena:1:v").RedisNil()
	rmock.ExpectGet("arena:1:v0:hours:0").SetVal(string(payload))

	got, err = cached.GetWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, wh, got)

	repo.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedClosedDayIsCached(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)

	rmock.ExpectGet("arena:1:v").SetVal("2")
	rmock.ExpectGet("arena:1:v2:hours:6").RedisNil()
	repo.On("GetWorkingHours", mock.Anything, 1, 6).Return(nil, nil).Once()
	rmock.ExpectSet("arena:1:v2:hours:6", "null", testTTL).SetVal("OK")

	got, err := cached.GetWorkingHours(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Nil(t, got)

	rmock.ExpectGet("arena:1:v").SetVal("2")
	rmock.ExpectGet("arena:1:v2:hours:6").SetVal("null")
	got, err = cached.GetWorkingHours(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Nil(t, got)

	repo.AssertExpectations(t)
}

func TestCachedFallsBackWhenRedisDown(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)

	price := &Price{ArenaID: 1, DayType: DayTypeWeekday, PricePerHour: decimal.NewFromInt(50000)}
	payload, _ := json.Marshal(price)

	rmock.ExpectGet("arena:1:v").RedisNil()
	rmock.ExpectGet("arena:1:v0:price:weekday").SetErr(errors.New("connection refused"))
	repo.On("GetPrice", mock.Anything, 1, DayTypeWeekday).Return(price, nil)
	rmock.ExpectSet("arena:1:v0:price:weekday", string(payload), testTTL).SetErr(errors.New("connection refused"))

	got, err := cached.GetPrice(context.Background(), 1, DayTypeWeekday)
	require.NoError(t, err)
	assert.True(t, got.PricePerHour.Equal(decimal.NewFromInt(50000)))

	// Without a readable version the cache is skipped entirely.
	rmock.ExpectGet("arena:1:v").SetErr(errors.New("connection refused"))
	got, err = cached.GetPrice(context.Background(), 1, DayTypeWeekday)
	require.NoError(t, err)
	assert.True(t, got.PricePerHour.Equal(decimal.NewFromInt(50000)))
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedNotFoundIsNotCached(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)

	rmock.ExpectGet("arena:5").RedisNil()
	repo.On("GetArenaByID", mock.Anything, 5).Return(nil, ErrArenaNotFound)

	_, err := cached.GetArenaByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrArenaNotFound)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestUpsertInvalidatesCache(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)
	ctx := context.Background()

	wh := *mondayHours()
	repo.On("UpsertWorkingHours", mock.Anything, wh).Return(&wh, nil)
	rmock.ExpectIncr("arena:1:v").SetVal(1)

	_, err := cached.UpsertWorkingHours(ctx, wh)
	require.NoError(t, err)

	p := Price{ArenaID: 1, DayType: DayTypeWeekend, PricePerHour: decimal.NewFromInt(70000)}
	repo.On("UpsertPrice", mock.Anything, p).Return(&p, nil)
	rmock.ExpectIncr("arena:1:v").SetVal(2)

	_, err = cached.UpsertPrice(ctx, p)
	require.NoError(t, err)

	repo.On("DeleteWorkingHours", mock.Anything, 1, 0).Return(nil)
	rmock.ExpectIncr("arena:1:v").SetVal(3)
	require.NoError(t, cached.DeleteWorkingHours(ctx, 1, 0))

	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestFailedUpsertKeepsCache(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)

	wh := *mondayHours()
	repo.On("UpsertWorkingHours", mock.Anything, wh).Return(nil, errors.New("db down"))

	_, err := cached.UpsertWorkingHours(context.Background(), wh)
	assert.Error(t, err)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestStaleLoadDoesNotOutliveWrite(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)
	ctx := context.Background()

	open := mondayHours()
	openPayload, err := json.Marshal(open)
	require.NoError(t, err)

	// A reader loads Monday's hours under version 0 while the owner closes
	// the day. Its write lands on the version 0 key.
	rmock.ExpectGet("arena:1:v").RedisNil()
	rmock.ExpectGet("arena:1:v0:hours:0").RedisNil()
	repo.On("GetWorkingHours", mock.Anything, 1, 0).Return(open, nil).Once()
	rmock.ExpectSet("arena:1:v0:hours:0", string(openPayload), testTTL).SetVal("OK")

	repo.On("DeleteWorkingHours", mock.Anything, 1, 0).Return(nil)
	rmock.ExpectIncr("arena:1:v").SetVal(1)

	_, err = cached.GetWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	require.NoError(t, cached.DeleteWorkingHours(ctx, 1, 0))

	// The next reader looks under version 1 and sees the day closed.
	rmock.ExpectGet("arena:1:v").SetVal("1")
	rmock.ExpectGet("arena:1:v1:hours:0").RedisNil()
	repo.On("GetWorkingHours", mock.Anything, 1, 0).Return(nil, nil).Once()
	rmock.ExpectSet("arena:1:v1:hours:0", "null", testTTL).SetVal("OK")

	got, err := cached.GetWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
	repo.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestSharedLoadSurvivesCanceledCaller(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	repo := new(MockRepository)
	cached := NewCachedRepository(repo, rdb, testTTL)

	a := &Arena{ID: 2, Name: "Sergeli"}
	payload, _ := json.Marshal(a)

	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)

	rmock.ExpectGet("arena:2").RedisNil()
	repo.On("GetArenaByID", mock.Anything, 2).Run(func(args mock.Arguments) {
		close(started)
		<-release
		loadErr <- args.Get(0).(context.Context).Err()
	}).Return(a, nil)
	rmock.ExpectSet("arena:2", string(payload), testTTL).SetVal("OK")

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := cached.GetArenaByID(ctx, 2)
		result <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)

	close(release)
	assert.NoError(t, <-loadErr)
}
