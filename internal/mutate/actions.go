// Package mutate provides the uniform write path against any named
// collection endpoint: one network call, a user-facing notification, and a
// full reload signal to dependent readers.
package mutate

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/five82/rosarium/internal/api"
)

// Notifier shows one transient message. Implemented by notify.Channel.
type Notifier interface {
	Show(message string)
}

// Actions performs create/remove/relate/unrelate against collection
// endpoints. Every successful mutation triggers the reload callback:
// correctness favors a full reload of dependent read state over an
// incremental merge.
type Actions struct {
	api    *api.Client
	notify Notifier
	reload func()
	log    *zap.Logger
}

// New builds an Actions façade. reload may be nil when nothing consumes
// the refresh signal (tests, mostly).
func New(transport *api.Client, notifier Notifier, reload func(), logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{api: transport, notify: notifier, reload: reload, log: logger}
}

// Create posts item to /{collection}/. label names the record in the
// notification ("Feeding", "Rose", ...).
func (a *Actions) Create(ctx context.Context, collection, label string, item any) error {
	path := fmt.Sprintf("/%s/", collection)
	if err := a.api.Do(ctx, http.MethodPost, path, nil, item, nil); err != nil {
		return a.fail(label, err)
	}
	return a.done(label+" added", collection)
}

// Update patches /{collection}/{id}/ with the changed fields.
func (a *Actions) Update(ctx context.Context, collection string, id int64, label string, item any) error {
	path := fmt.Sprintf("/%s/%d/", collection, id)
	if err := a.api.Do(ctx, http.MethodPatch, path, nil, item, nil); err != nil {
		return a.fail(label, err)
	}
	return a.done(label+" updated", collection)
}

// Remove deletes /{collection}/{id}/.
func (a *Actions) Remove(ctx context.Context, collection string, id int64, label string) error {
	path := fmt.Sprintf("/%s/%d/", collection, id)
	if err := a.api.Do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return a.fail(label, err)
	}
	return a.done(label+" removed", collection)
}

// Relate adds a many-to-many association: POST /{collection}/{id}/{relation}/
// with body {<relation>_ids: ids}. The body shape is the same for Unrelate;
// the API historically accepted two shapes and this client standardizes on
// the suffixed one.
func (a *Actions) Relate(ctx context.Context, collection string, id int64, relation string, ids []int64) error {
	path := fmt.Sprintf("/%s/%d/%s/", collection, id, relation)
	if err := a.api.Do(ctx, http.MethodPost, path, nil, relationBody(relation, ids), nil); err != nil {
		return a.fail(relation, err)
	}
	return a.done(relation+" updated", collection)
}

// Unrelate removes a many-to-many association: DELETE on the relation path
// with the same body shape as Relate.
func (a *Actions) Unrelate(ctx context.Context, collection string, id int64, relation string, ids []int64) error {
	path := fmt.Sprintf("/%s/%d/%s/", collection, id, relation)
	if err := a.api.Do(ctx, http.MethodDelete, path, nil, relationBody(relation, ids), nil); err != nil {
		return a.fail(relation, err)
	}
	return a.done(relation+" updated", collection)
}

func relationBody(relation string, ids []int64) map[string][]int64 {
	return map[string][]int64{relation + "_ids": ids}
}

// done emits the success notification and the reload signal.
func (a *Actions) done(message, collection string) error {
	if a.notify != nil {
		a.notify.Show(message)
	}
	a.log.Debug("mutation applied", zap.String("collection", collection))
	if a.reload != nil {
		a.reload()
	}
	return nil
}

// fail notifies with the most specific message available and returns the
// error so the call site can keep its own state (an open form, say) intact.
func (a *Actions) fail(label string, err error) error {
	if a.notify != nil {
		a.notify.Show(api.MessageFrom(err))
	}
	a.log.Warn("mutation failed", zap.String("label", label), zap.Error(err))
	return err
}
