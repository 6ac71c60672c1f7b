package dto

import "itinerary-planner-service/internal/domain"

type ExperienceResponse struct {
	ExperienceID   string                `json:"experience_id"`
	Name           string                `json:"name"`
	Category       string                `json:"category,omitempty"`
	Lat            *float64              `json:"lat,omitempty"`
	Lon            *float64              `json:"lon,omitempty"`
	Rating         float64               `json:"rating"`
	Tags           []string              `json:"tags,omitempty"`
	Featured       bool                  `json:"featured"`
	Verified       bool                  `json:"verified"`
	OperatingHours domain.OperatingHours `json:"operating_hours,omitempty"`
	AdmissionFee   *float64              `json:"admission_fee,omitempty"`
}

type ListExperiencesResponse struct {
	Experiences []ExperienceResponse `json:"experiences"`
}

func FromExperience(exp *domain.Experience) ExperienceResponse {
	res := ExperienceResponse{
		ExperienceID:   exp.ID,
		Name:           exp.Name,
		Category:       exp.Category,
		Rating:         exp.Rating,
		Tags:           exp.Tags,
		Featured:       exp.Featured,
		Verified:       exp.Verified,
		OperatingHours: exp.OperatingHours,
		AdmissionFee:   exp.AdmissionFee,
	}
	if exp.Location != nil {
		lat, lon := exp.Location.Lat, exp.Location.Lon
		res.Lat, res.Lon = &lat, &lon
	}
	return res
}
