package spotify

import "github.com/ewilliams-labs/typetune/internal/core/domain"

// mapTopTrack flattens a Spotify track plus its first artist's details.
// artist is nil when the batch lookup did not return the artist.
func mapTopTrack(st spotifyTrack, artist *spotifyArtist) domain.TopTrack {
	names := make([]string, 0, len(st.Artists))
	ids := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
		ids = append(ids, a.ID)
	}

	tt := domain.TopTrack{
		TrackName:    st.Name,
		TrackID:      st.ID,
		Album:        st.Album.Name,
		AlbumImage:   firstImage(st.Album.Images),
		ReleaseDate:  st.Album.ReleaseDate,
		DurationMs:   st.DurationMs,
		Popularity:   st.Popularity,
		Explicit:     st.Explicit,
		ArtistNames:  names,
		ArtistIDs:    ids,
		ArtistGenres: []string{},
	}
	if artist != nil {
		if artist.Genres != nil {
			tt.ArtistGenres = artist.Genres
		}
		tt.ArtistPopularity = artist.Popularity
	}
	return tt
}

// mapTrackRef keeps the track identity and its first artist.
func mapTrackRef(st spotifyTrack) domain.TrackRef {
	ref := domain.TrackRef{ID: st.ID, Title: st.Name}
	if len(st.Artists) > 0 {
		ref.ArtistID = st.Artists[0].ID
		ref.ArtistName = st.Artists[0].Name
	}
	return ref
}

func mapArtist(sa spotifyArtist) domain.Artist {
	return domain.Artist{
		ID:         sa.ID,
		Name:       sa.Name,
		Genres:     sa.Genres,
		Popularity: sa.Popularity,
		ImageURL:   firstImage(sa.Images),
		SpotifyURL: sa.ExternalURLs.Spotify,
	}
}

func firstImage(images []spotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
