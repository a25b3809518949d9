package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
)

var (
	ErrNoScene         = errors.New("document has no scenes")
	ErrSceneOutOfRange = errors.New("scene index out of range")
	ErrNodeOutOfRange  = errors.New("node index out of range")
	ErrNodeCycle       = errors.New("node hierarchy contains a cycle")
	ErrMeshOutOfRange  = errors.New("mesh index out of range")
)

// SceneNode is a mesh-carrying node of the default scene with its world transform.
type SceneNode struct {
	// Name is the node's own name, or the mesh name when the node is unnamed.
	Name string
	// Node is the index of the node in the document.
	Node int
	// Mesh is the index of the mesh the node instances.
	Mesh int
	// Transform is parent * ... * local, column-major.
	Transform common.Mat4
}

// NodeTransform returns a node's local transform: its matrix when present, otherwise
// T * R * S with identity defaults for the missing components.
//
// Parameters:
//   - n: the node
//
// Returns:
//   - common.Mat4: the local transform
func NodeTransform(n Node) common.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := [3]float32{0, 0, 0}
	r := common.Quat{0, 0, 0, 1}
	s := [3]float32{1, 1, 1}
	if n.Translation != nil {
		t = *n.Translation
	}
	if n.Rotation != nil {
		r = *n.Rotation
	}
	if n.Scale != nil {
		s = *n.Scale
	}
	return common.FromRotationTranslationScale(r, t, s)
}

// FlattenScene walks the default scene (scenes[scene], or the first scene when unset) depth first
// and returns every node that references a mesh, with transforms composed from its ancestors.
//
// Parameters:
//   - doc: the parsed document
//
// Returns:
//   - []SceneNode: mesh nodes in traversal order
//   - error: if the scene or a referenced node or mesh is out of range, or the hierarchy loops
func FlattenScene(doc *Document) ([]SceneNode, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene %d: %w", sceneIdx, ErrSceneOutOfRange)
	}

	var out []SceneNode
	visiting := make(map[int]bool)

	var walk func(idx int, parent common.Mat4) error
	walk = func(idx int, parent common.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node %d: %w", idx, ErrNodeOutOfRange)
		}
		if visiting[idx] {
			return fmt.Errorf("node %d: %w", idx, ErrNodeCycle)
		}
		visiting[idx] = true
		defer delete(visiting, idx)

		node := doc.Nodes[idx]
		world := common.MulMat4(parent, NodeTransform(node))

		if node.Mesh != nil {
			if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
				return fmt.Errorf("node %d mesh %d: %w", idx, *node.Mesh, ErrMeshOutOfRange)
			}
			out = append(out, SceneNode{
				Name:      common.Coalesce(node.Name, doc.Meshes[*node.Mesh].Name, fmt.Sprintf("node%d", idx)),
				Node:      idx,
				Mesh:      *node.Mesh,
				Transform: world,
			})
		}

		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range doc.Scenes[sceneIdx].Nodes {
		if err := walk(root, common.IdentityMat4()); err != nil {
			return nil, err
		}
	}
	return out, nil
}
