package symplec

import "testing"

func TestTrajectoryLayout(t *testing.T) {
	tr := NewTrajectory(2, 3)
	if tr.Dim() != 2 {
		t.Errorf("Dim() = %d, want 2", tr.Dim())
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}

	for i := 0; i < tr.Len(); i++ {
		q, p := tr.At(i)
		q[0], q[1] = float64(i), float64(i)+0.5
		p[0], p[1] = -float64(i), 10 * float64(i)
	}
	for i := 0; i < tr.Len(); i++ {
		if q := tr.Q(i); q[0] != float64(i) || q[1] != float64(i)+0.5 {
			t.Errorf("Q(%d) = %v", i, q)
		}
		if p := tr.P(i); p[0] != -float64(i) || p[1] != 10*float64(i) {
			t.Errorf("P(%d) = %v", i, p)
		}
	}
}

func TestTrajectoryViewsShareBuffer(t *testing.T) {
	tr := NewTrajectory(1, 2)
	q, _ := tr.At(1)
	q[0] = 42
	if got := tr.Q(1)[0]; got != 42 {
		t.Errorf("view write not visible: Q(1)[0] = %v, want 42", got)
	}
}

func TestTrajectoryHead(t *testing.T) {
	tr := NewTrajectory(2, 5)
	for i := 0; i < tr.Len(); i++ {
		tr.Q(i)[0] = float64(i)
	}

	head := tr.Head(3)
	if head.Len() != 3 || head.Dim() != 2 {
		t.Fatalf("Head(3): Len=%d Dim=%d, want 3 and 2", head.Len(), head.Dim())
	}
	for i := 0; i < head.Len(); i++ {
		if head.Q(i)[0] != float64(i) {
			t.Errorf("Head row %d = %v, want %v", i, head.Q(i)[0], float64(i))
		}
	}

	head.Q(0)[0] = -1
	if tr.Q(0)[0] != -1 {
		t.Error("Head does not share the underlying buffer")
	}
}

func TestTrajectoryEmpty(t *testing.T) {
	var tr Trajectory
	if tr.Len() != 0 {
		t.Errorf("zero value Len() = %d, want 0", tr.Len())
	}
	if tr := NewTrajectory(3, 0); tr.Len() != 0 {
		t.Errorf("zero rows Len() = %d, want 0", tr.Len())
	}
}
