package predictor

import (
	"aqipredict/internal/config"
	"aqipredict/internal/metrics"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Loader builds a Predictor from some artifact
type Loader func() (Predictor, error)

// Provider loads a model once and hands out the same Predictor on every call
type Provider struct {
	source string
	load   Loader

	once      sync.Once
	predictor Predictor
	err       error
}

// NewProvider creates a provider; nothing is loaded until Load is called
func NewProvider(source string, load Loader) *Provider {
	return &Provider{
		source: source,
		load:   load,
	}
}

// FileLoader loads a linear model artifact from path
func FileLoader(path string) Loader {
	return func() (Predictor, error) {
		return LoadFile(path)
	}
}

// Load runs the loader at most once. Later calls return the cached result,
// including a failure.
func (p *Provider) Load() (Predictor, error) {
	p.once.Do(func() {
		start := time.Now()
		predictor, err := p.load()
		if err == nil && predictor == nil {
			err = errors.New("loader returned no predictor")
		}

		if err != nil {
			var loadErr *ModelLoadError
			if !errors.As(err, &loadErr) {
				err = &ModelLoadError{Source: p.source, Err: err}
			}
			metrics.RecordModelLoad(p.source, time.Since(start), err)
			p.err = err
			return
		}

		metrics.RecordModelLoad(predictor.Name(), time.Since(start), nil)
		log.Printf("✓ Loaded %s model from %s in %s", predictor.Name(), p.source, time.Since(start))
		p.predictor = predictor
	})

	return p.predictor, p.err
}

// ProviderFromConfig picks the backend named in the model section
func ProviderFromConfig(cfg config.ModelConfig, redisCfg config.RedisConfig) *Provider {
	if cfg.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		streams := StreamConfig{
			InputStream:  redisCfg.InputStream,
			OutputStream: redisCfg.OutputStream,
			Timeout:      cfg.Timeout,
		}
		return NewProvider("redis://"+redisCfg.Addr+"/"+redisCfg.InputStream, RedisLoader(client, streams))
	}

	return NewProvider(cfg.Path, FileLoader(cfg.Path))
}
