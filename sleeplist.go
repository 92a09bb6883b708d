package greenthreads

// sleepList is the unordered singly-linked list of Blocked fibers with
// a future wake timestamp. Membership is transient: the
// scheduler step walks it every tick and moves expired fibers to the
// ready heap.
type sleepList struct {
	head *Fiber
	n    int
}

func (l *sleepList) add(f *Fiber) {
	f.next = l.head
	f.sleeping = true
	l.head = f
	l.n++
}

// drainExpired removes every fiber whose wakeAtMS <= nowMS and invokes
// onExpired for each. Order among expired fibers is unspecified; each
// one enters the ready heap before the next pick.
func (l *sleepList) drainExpired(nowMS int64, onExpired func(*Fiber)) {
	var keep *Fiber
	f := l.head
	for f != nil {
		nxt := f.next
		if f.wakeAtMS <= nowMS {
			f.next = nil
			f.sleeping = false
			l.n--
			onExpired(f)
		} else {
			f.next = keep
			keep = f
		}
		f = nxt
	}
	l.head = keep
}

// nextWake returns the earliest wake time among all sleepers and true,
// or (0, false) if the list is empty.
func (l *sleepList) nextWake() (int64, bool) {
	if l.head == nil {
		return 0, false
	}
	min := l.head.wakeAtMS
	for f := l.head.next; f != nil; f = f.next {
		if f.wakeAtMS < min {
			min = f.wakeAtMS
		}
	}
	return min, true
}

func (l *sleepList) empty() bool { return l.head == nil }
