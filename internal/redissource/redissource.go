// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package redissource keeps the shared credential in a redis namespace, for
// hosts where several Mochi CLIs or workers share one session without an OS
// keychain (containers, CI runners).
package redissource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mochi/shell/internal/source"
)

const (
	defaultNamespace = "mochi"
	defaultTimeout   = 2 * time.Second
)

var errRedisUnavailable = errors.New("credential redis unavailable")

// Options configures a Source.
type Options struct {
	// Namespace prefixes every key: "<namespace>:<key>".
	Namespace string
	// Timeout bounds each redis round trip.
	Timeout time.Duration
	// TTL expires written keys; zero keeps them until deleted.
	TTL time.Duration
}

// Source implements source.Source on a redis client.
type Source struct {
	redis   *redis.Client
	prefix  string
	timeout time.Duration
	ttl     time.Duration
}

var _ source.Source = (*Source)(nil)

// New returns a Source using client.
func New(client *redis.Client, opts Options) *Source {
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Source{
		redis:   client,
		prefix:  opts.Namespace,
		timeout: opts.Timeout,
		ttl:     opts.TTL,
	}
}

// Dial connects to addr and verifies the server answers.
func Dial(ctx context.Context, addr string, opts Options) (*Source, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return New(client, opts), nil
}

// Close releases the underlying client.
func (s *Source) Close() error {
	return s.redis.Close()
}

func (s *Source) key(name string) string {
	return s.prefix + ":" + name
}

// Get returns the value for key, or source.ErrNotFound.
func (s *Source) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", source.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return v, nil
}

// Set stores value under key.
func (s *Source) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return nil
}

// Delete removes key; a missing key reports source.ErrNotFound.
func (s *Source) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.redis.Del(ctx, s.key(key)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	if n == 0 {
		return source.ErrNotFound
	}
	return nil
}
