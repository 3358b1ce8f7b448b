package object

import "fmt"

// CollectTree adds root and every subtree and blob hash beneath it to seen.
// Subtrees already present in seen are not read again.
func CollectTree(r TreeReader, root Hash, seen map[Hash]struct{}) error {
	if _, ok := seen[root]; ok {
		return nil
	}
	seen[root] = struct{}{}

	tr, err := r.ReadTree(root)
	if err != nil {
		return fmt.Errorf("collect tree %s: %w", root, err)
	}
	for _, e := range tr.Entries {
		if e.IsDir() {
			if err := CollectTree(r, e.Hash, seen); err != nil {
				return err
			}
			continue
		}
		seen[e.Hash] = struct{}{}
	}
	return nil
}
