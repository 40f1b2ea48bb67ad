/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/talkshop/golem/kernel"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// Storage persists sessions (predicates and histories) to a BoltDB
// file so conversations survive restarts.
//
// A nil *Storage is fine: every method is a no-op.  Call sites don't
// have to care whether persistence was configured.
type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// NewStorage makes a Storage for the given file.  Open actually opens
// it.
func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db

	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
}

func (s *Storage) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s == nil || !s.Debug {
		return
	}
	log.Printf("BoltDB "+format, args...)
}

// SaveSession writes one session's state.
func (s *Storage) SaveSession(ctx context.Context, sessionID string, d kernel.SessionData) error {
	if s == nil {
		return nil
	}
	js, err := json.Marshal(&d)
	if err != nil {
		return err
	}
	s.logf("SaveSession %s (%d bytes)", sessionID, len(js))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), js)
	})
}

// RemSession deletes one session's state.
func (s *Storage) RemSession(ctx context.Context, sessionID string) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}

// RestoreInto loads every stored session into the kernel.
func (s *Storage) RestoreInto(ctx context.Context, k *kernel.Kernel) error {
	if s == nil {
		return nil
	}
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(sessionsBucket).Cursor()
		for id, js := c.First(); id != nil; id, js = c.Next() {
			var d kernel.SessionData
			if err := json.Unmarshal(js, &d); err != nil {
				return err
			}
			k.PutSessionData(string(id), d)
			n++
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logf("RestoreInto found %d sessions", n)
	return nil
}
