package episode

// sparseReward credits the first sighting of a parent object.
// Among visible, not yet seen parent instances the one with the largest base reward wins
// and only that instance is marked seen.
func (e *Episode) sparseReward() float64 {
	candidates := make([]candidate, 0)
	for _, parent := range e.parents {
		for _, id := range e.env.FindID(parent.Type) {
			if e.env.ObjectIsVisible(id) && !e.records.seen(id) {
				candidates = append(candidates, candidate{id: id, reward: parent.Reward})
			}
		}
	}
	best, ok := argmax(candidates)
	if !ok {
		return e.config.StepPenalty
	}
	e.records.get(best.id).seen = true
	if e.config.Verbose {
		e.logger.Printf("parent %s seen, reward %.4f", best.id, best.reward)
	}
	return best.reward
}
