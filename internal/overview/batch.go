package overview

import "github.com/rgehrsitz/njtax/internal/domain"

// BuildAll builds and attaches an overview to every town in the state.
// It returns the number of overviews built.
func (b *Builder) BuildAll(state *domain.StateData) int {
	built := 0
	for ci := range state.Counties {
		county := &state.Counties[ci]
		for ti := range county.Towns {
			town := &county.Towns[ti]
			town.Overview = b.Build(town, county, state)
			built++
		}
		b.Logger.Infof("built %d town overviews for %s County", len(county.Towns), county.Name)
	}
	return built
}
