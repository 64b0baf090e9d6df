package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gekko3d/gallery/gltfload"
	"github.com/gekko3d/gallery/scenegraph"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Future is a one-shot result filled by a background load.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value, f.err = value, err
	close(f.done)
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the result is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the value and error. It must only be called once Ready is true.
func (f *Future[T]) Result() (T, error) {
	return f.value, f.err
}

// Wait blocks until the result is ready or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// SceneLoader reads a scene asset into a node tree.
type SceneLoader func(path string, rules gltfload.Rules) (*scenegraph.Node, error)

type sceneAsset struct {
	id     AssetId
	future *Future[*scenegraph.Node]
}

type AssetServer struct {
	mu     sync.Mutex
	loader SceneLoader
	scenes map[string]sceneAsset
}

func NewAssetServer(loader SceneLoader) *AssetServer {
	if loader == nil {
		loader = gltfload.Load
	}
	return &AssetServer{
		loader: loader,
		scenes: make(map[string]sceneAsset),
	}
}

// LoadSceneAsync starts loading path in the background. Loads of the same path share
// one future and id.
func (server *AssetServer) LoadSceneAsync(path string, rules gltfload.Rules) (AssetId, *Future[*scenegraph.Node]) {
	server.mu.Lock()
	defer server.mu.Unlock()

	if asset, ok := server.scenes[path]; ok {
		return asset.id, asset.future
	}
	asset := sceneAsset{id: makeAssetId(), future: newFuture[*scenegraph.Node]()}
	server.scenes[path] = asset

	go func(load SceneLoader) {
		root, err := load(path, rules)
		if err != nil {
			err = fmt.Errorf("error loading scene %s: %w", path, err)
		}
		asset.future.resolve(root, err)
	}(server.loader)

	return asset.id, asset.future
}

// Scene returns the future of a previously requested path.
func (server *AssetServer) Scene(path string) (*Future[*scenegraph.Node], bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	asset, ok := server.scenes[path]
	return asset.future, ok
}

type AssetServerModule struct {
	// Loader replaces the glTF loader, used by tests.
	Loader SceneLoader
}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer(m.Loader))
}
