package screener

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shivvp96/LeapFinder/internal/clients/newsapi"
	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/modules/scoring"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/modules/technicals"
	"github.com/shivvp96/LeapFinder/internal/modules/volatility"
	"github.com/shivvp96/LeapFinder/internal/utils"
)

// perTickerTimeout bounds each external call so one unresponsive ticker
// cannot stall the whole batch.
const perTickerTimeout = 30 * time.Second

// Pipeline runs the staged screening flow: fundamental filter, volatility
// filter, earnings annotation, sentiment enrichment, final predicate.
//
// Per-ticker failures at any stage drop that ticker and never abort the
// batch. Rows flow forward as value copies; a stage adds fields but never
// rewrites what an earlier stage computed.
type Pipeline struct {
	market     domain.MarketDataGateway
	news       domain.NewsGateway
	classifier sentiment.Classifier
	estimator  *volatility.Estimator
	implied    volatility.ImpliedStrategy
	workers    int
	now        func() time.Time
	log        zerolog.Logger
}

// NewPipeline creates a screening pipeline. workers bounds per-stage
// fan-out across tickers; values below one are treated as one.
func NewPipeline(
	market domain.MarketDataGateway,
	news domain.NewsGateway,
	classifier sentiment.Classifier,
	estimator *volatility.Estimator,
	implied volatility.ImpliedStrategy,
	workers int,
	log zerolog.Logger,
) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		market:     market,
		news:       news,
		classifier: classifier,
		estimator:  estimator,
		implied:    implied,
		workers:    workers,
		now:        time.Now,
		log:        log.With().Str("module", "screener").Logger(),
	}
}

// stageRecord carries the record plus the close series later stages need.
type stageRecord struct {
	rec    Record
	closes []float64
}

// Run screens the given tickers and returns surviving candidates sorted
// by composite score, highest first. The error return is reserved for
// run-level failures; per-ticker attrition yields a smaller result set
// instead.
func (p *Pipeline) Run(ctx context.Context, tickers []string, criteria Criteria) ([]Record, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("screening universe is empty")
	}
	criteria = criteria.Clamped()

	start := time.Now()
	survivors := p.fundamentalStage(ctx, tickers, criteria)
	p.logStage("fundamental", len(tickers), len(survivors))

	in := len(survivors)
	survivors = p.volatilityStage(survivors, criteria)
	p.logStage("volatility", in, len(survivors))

	survivors = p.earningsStage(ctx, survivors)
	survivors = p.sentimentStage(ctx, survivors)

	in = len(survivors)
	results := p.finalStage(survivors, criteria)
	p.logStage("final_predicate", in, len(results))

	for i := range results {
		results[i].Score = scoring.Score(scoring.Input{
			IVHVRatio:           results[i].IVHVRatio,
			Sentiment:           results[i].Sentiment,
			SentimentConfidence: results[i].SentimentConfidence,
			DropFromATHPct:      results[i].DropFromATHPct,
			MarketCapUSD:        results[i].MarketCap,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ticker < results[j].Ticker
	})

	p.log.Info().
		Int("universe", len(tickers)).
		Int("candidates", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Screening run complete")

	return results, nil
}

// fundamentalStage fetches price history and static info per ticker and
// keeps those beyond the drop and market cap thresholds. Tickers with
// missing or unusable data are dropped silently.
func (p *Pipeline) fundamentalStage(ctx context.Context, tickers []string, criteria Criteria) []stageRecord {
	end := p.now()
	startDate := end.AddDate(0, 0, -HistoryDays)

	return p.forEachTicker(ctx, tickers, func(ctx context.Context, ticker string) (*stageRecord, error) {
		points, err := p.market.GetDailyCloses(ctx, ticker, startDate, end)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("empty price history: %w", domain.ErrUnavailable)
		}

		closes := make([]float64, len(points))
		ath := 0.0
		for i, pt := range points {
			closes[i] = pt.Close
			if pt.Close > ath {
				ath = pt.Close
			}
		}
		if ath <= 0 {
			return nil, fmt.Errorf("degenerate price history: %w", domain.ErrInsufficient)
		}
		current := closes[len(closes)-1]
		drop := (ath - current) / ath * 100

		info, err := p.market.GetStaticInfo(ctx, ticker)
		if err != nil {
			return nil, err
		}

		if drop < criteria.MinDropFromATHPct || info.MarketCap < criteria.MinMarketCapUSD {
			return nil, nil
		}

		return &stageRecord{
			rec: Record{
				Ticker:         ticker,
				CompanyName:    info.LongName,
				Sector:         info.Sector,
				MarketCap:      info.MarketCap,
				CurrentPrice:   current,
				AllTimeHigh:    ath,
				DropFromATHPct: drop,
				TrailingPE:     info.TrailingPE,
				ForwardPE:      info.ForwardPE,
			},
			closes: closes,
		}, nil
	})
}

// volatilityStage estimates HV, synthesizes IV, and keeps records whose
// IV/HV ratio clears the threshold. It also attaches the informational
// trend annotations since the close series is in hand here.
//
// Runs sequentially: the stage is pure computation, and the seeded IV
// strategy draws from a single random source whose sequence must stay
// deterministic.
func (p *Pipeline) volatilityStage(records []stageRecord, criteria Criteria) []stageRecord {
	var out []stageRecord
	for _, sr := range records {
		hv, err := p.estimator.Historical(sr.closes)
		if err != nil {
			p.log.Debug().Err(err).Str("ticker", sr.rec.Ticker).Msg("Dropping ticker at volatility stage")
			continue
		}

		iv := p.implied.Implied(hv)
		ratio := utils.SafeDivide(iv, hv, 0)
		if ratio < criteria.MinIVHVRatio {
			continue
		}

		sr.rec.HistoricalVolatility = hv
		sr.rec.ImpliedVolatility = iv
		sr.rec.IVHVRatio = ratio
		sr.rec.RSI14 = technicals.RSI(sr.closes)
		sr.rec.SMA200DistancePct = technicals.SMADistance(sr.closes)
		out = append(out, sr)
	}
	return out
}

// earningsStage annotates each record with the next earnings date and the
// has_earnings_soon flag. It never removes rows; exclusion on earnings
// happens in the final predicate when the toggle asks for it. A failed
// lookup leaves the record unannotated rather than dropping it.
func (p *Pipeline) earningsStage(ctx context.Context, records []stageRecord) []stageRecord {
	today := p.now()

	out := p.forEachRecord(ctx, records, func(ctx context.Context, sr stageRecord) (*stageRecord, error) {
		earnings, err := p.market.GetNextEarningsDate(ctx, sr.rec.Ticker)
		if err != nil {
			p.log.Debug().Err(err).Str("ticker", sr.rec.Ticker).Msg("Earnings lookup failed, leaving unannotated")
			return &sr, nil
		}
		if earnings == nil {
			return &sr, nil
		}

		// Floored whole days: a date hours in the past is day -1, never
		// day 0, so has_earnings_soon stays a strictly forward window.
		days := int(math.Floor(earnings.Sub(today).Hours() / 24))
		sr.rec.EarningsDate = earnings
		sr.rec.DaysToEarnings = &days
		sr.rec.HasEarningsSoon = days >= 0 && days <= EarningsWindowDays
		return &sr, nil
	})

	return out
}

// sentimentStage fetches recent headlines and classifies them. When the
// news gateway fails or is rate limited, deterministic placeholder
// headlines keep the classifier exercised in degraded mode.
func (p *Pipeline) sentimentStage(ctx context.Context, records []stageRecord) []stageRecord {
	since := p.now().AddDate(0, 0, -HeadlineLookbackDays)

	return p.forEachRecord(ctx, records, func(ctx context.Context, sr stageRecord) (*stageRecord, error) {
		headlines, err := p.news.GetHeadlines(ctx, sr.rec.Ticker, since, MaxHeadlines)
		if err != nil {
			p.log.Debug().Err(err).Str("ticker", sr.rec.Ticker).Msg("News fetch failed, using placeholder headlines")
			headlines = newsapi.FallbackHeadlines(sr.rec.Ticker)
		}

		analysis := p.classifier.Classify(ctx, sr.rec.Ticker, headlines)

		sr.rec.Sentiment = analysis.Label
		sr.rec.SentimentConfidence = analysis.Confidence
		sr.rec.SentimentNotes = analysis.Notes
		sr.rec.HeadlineCount = len(headlines)
		return &sr, nil
	})
}

// finalStage applies the sentiment filter and, when the earnings toggle
// is on, requires has_earnings_soon. With the toggle off every row passes
// the earnings sub-condition regardless of its value: the toggle gates
// inclusion, it does not exclude.
func (p *Pipeline) finalStage(records []stageRecord, criteria Criteria) []Record {
	var out []Record
	for _, sr := range records {
		if !criteria.AllowsSentiment(sr.rec.Sentiment) {
			continue
		}
		if criteria.RequireUpcomingEarnings && !sr.rec.HasEarningsSoon {
			continue
		}
		out = append(out, sr.rec)
	}
	return out
}

// forEachTicker fans work out across tickers with a bounded worker pool.
// A worker's error drops its ticker; a nil result with nil error means
// the ticker failed the stage predicate. Input order is preserved.
func (p *Pipeline) forEachTicker(ctx context.Context, tickers []string, fn func(context.Context, string) (*stageRecord, error)) []stageRecord {
	results := make([]*stageRecord, len(tickers))

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for i, ticker := range tickers {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, perTickerTimeout)
			defer cancel()

			sr, err := fn(callCtx, ticker)
			if err != nil {
				p.log.Debug().Err(err).Str("ticker", ticker).Msg("Dropping ticker")
				return nil
			}
			results[i] = sr
			return nil
		})
	}
	_ = g.Wait()

	var out []stageRecord
	for _, sr := range results {
		if sr != nil {
			out = append(out, *sr)
		}
	}
	return out
}

// forEachRecord is forEachTicker over already-built records.
func (p *Pipeline) forEachRecord(ctx context.Context, records []stageRecord, fn func(context.Context, stageRecord) (*stageRecord, error)) []stageRecord {
	results := make([]*stageRecord, len(records))

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for i, sr := range records {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, perTickerTimeout)
			defer cancel()

			updated, err := fn(callCtx, sr)
			if err != nil {
				p.log.Debug().Err(err).Str("ticker", sr.rec.Ticker).Msg("Dropping ticker")
				return nil
			}
			results[i] = updated
			return nil
		})
	}
	_ = g.Wait()

	var out []stageRecord
	for _, sr := range results {
		if sr != nil {
			out = append(out, *sr)
		}
	}
	return out
}

func (p *Pipeline) logStage(stage string, in, out int) {
	p.log.Debug().
		Str("stage", stage).
		Int("in", in).
		Int("out", out).
		Msg("Stage complete")
}
