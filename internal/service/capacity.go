package service

// CapacityThreshold is the link count at which creation is refused.
//
// With a 16-bit namespace the birthday bound p = 1 - e^(-n(n-1)/(2*2^16))
// puts the collision chance for the 65th link at about 3.1%, which keeps
// retries rare. Past this point creation simply stops.
//
// TODO: widen NamespaceBits (24, 32, ...) as the store fills instead of
// refusing new links.
const CapacityThreshold = 65

// CheckCapacity refuses allocation once existing reaches CapacityThreshold.
func CheckCapacity(existing int64) error {
	if existing >= CapacityThreshold {
		return ErrCapacityExceeded
	}
	return nil
}
