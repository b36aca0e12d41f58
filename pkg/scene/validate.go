package scene

import "fmt"

// ValidationSeverity indicates whether a validation finding makes the graph
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // graph is unusable
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (NoParent if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID == NoParent {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID, e.Message)
}

// Validate runs every structural check on the graph and returns the
// findings. An empty slice means the graph is valid. Validate never
// mutates the graph.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLinks(g)...)
	errs = append(errs, validateAcyclic(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validatePayloads(g)...)
	return errs
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateLinks checks that parent and child indices agree in both directions.
func validateLinks(g *Graph) []ValidationError {
	var errs []ValidationError
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID != NodeID(i) {
			errs = append(errs, ValidationError{
				NodeID:   NodeID(i),
				Message:  fmt.Sprintf("stored ID %s does not match arena index", n.ID),
				Severity: SeverityError,
			})
		}
		if n.Parent != NoParent {
			p := g.Get(n.Parent)
			if p == nil {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("parent %s does not exist", n.Parent),
					Severity: SeverityError,
				})
			} else if !containsID(p.Children, n.ID) {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("parent %s does not list this node as a child", n.Parent),
					Severity: SeverityError,
				})
			}
		}
		for _, cid := range n.Children {
			c := g.Get(cid)
			if c == nil {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("child %s does not exist", cid),
					Severity: SeverityError,
				})
				continue
			}
			if c.Parent != n.ID {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("child %s names %s as its parent", cid, c.Parent),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateAcyclic walks every parent chain. A chain longer than the arena
// must revisit a node.
func validateAcyclic(g *Graph) []ValidationError {
	limit := len(g.Nodes)
	for i := range g.Nodes {
		steps := 0
		for id := g.Nodes[i].Parent; id != NoParent; id = g.Nodes[id].Parent {
			if !g.Has(id) {
				break // dangling; reported by validateLinks
			}
			steps++
			if steps > limit {
				return []ValidationError{{
					NodeID:   NodeID(i),
					Message:  "cycle detected in parent chain",
					Severity: SeverityError,
				}}
			}
		}
	}
	return nil
}

// validateNames checks the name index against the arena.
func validateNames(g *Graph) []ValidationError {
	var errs []ValidationError
	for name, id := range g.NameIndex {
		n := g.Get(id)
		if n == nil {
			errs = append(errs, ValidationError{
				NodeID:   NoParent,
				Message:  fmt.Sprintf("name %q indexes missing node %s", name, id),
				Severity: SeverityError,
			})
			continue
		}
		if n.Name != name {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name index says %q but node is named %q", name, n.Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that the root list is exactly the parentless nodes.
func validateRoots(g *Graph) []ValidationError {
	var errs []ValidationError
	if len(g.Nodes) > 0 && len(g.Roots) == 0 {
		errs = append(errs, ValidationError{
			NodeID:   NoParent,
			Message:  "graph has nodes but no roots",
			Severity: SeverityError,
		})
	}
	for _, id := range g.Roots {
		n := g.Get(id)
		if n == nil {
			errs = append(errs, ValidationError{
				NodeID:   NoParent,
				Message:  fmt.Sprintf("root %s does not exist", id),
				Severity: SeverityError,
			})
			continue
		}
		if n.Parent != NoParent {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("root has parent %s", n.Parent),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validatePayloads checks that each node's data matches its kind and that
// volumes and colors are sane.
func validatePayloads(g *Graph) []ValidationError {
	var errs []ValidationError
	for i := range g.Nodes {
		n := &g.Nodes[i]
		switch data := n.Data.(type) {
		case VoxelData:
			if n.Kind != NodeVoxel {
				errs = append(errs, kindMismatch(n))
			}
			if data.Primitive == "" {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  "voxel references no primitive",
					Severity: SeverityError,
				})
			}
			if a := data.Appearance.Color.A; a < 0 || a > 1 {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("alpha %.3f outside [0,1]", a),
					Severity: SeverityWarning,
				})
			}
			if data.Collision != nil {
				errs = append(errs, checkBox(n.ID, data.Collision.Box)...)
			}
		case ColliderData:
			if n.Kind != NodeCollider {
				errs = append(errs, kindMismatch(n))
			}
			errs = append(errs, checkBox(n.ID, data.Box)...)
		case GroupData:
			if n.Kind != NodeGroup {
				errs = append(errs, kindMismatch(n))
			}
		case nil:
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "node has no data",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func kindMismatch(n *Node) ValidationError {
	return ValidationError{
		NodeID:   n.ID,
		Message:  fmt.Sprintf("%s node carries %T", n.Kind, n.Data),
		Severity: SeverityError,
	}
}

func checkBox(id NodeID, b Box) []ValidationError {
	if b.Size.X() > 0 && b.Size.Y() > 0 && b.Size.Z() > 0 {
		return nil
	}
	return []ValidationError{{
		NodeID:   id,
		Message:  fmt.Sprintf("box size %v must be positive on every axis", b.Size),
		Severity: SeverityError,
	}}
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, c := range ids {
		if c == id {
			return true
		}
	}
	return false
}
