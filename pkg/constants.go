package shared

// ProjectID is the fallback GCP project when GOOGLE_CLOUD_PROJECT is unset.
const ProjectID = "garmin-exercises-db"

// TopicRunCompleted receives the run-completion event after a successful
// collection.
const TopicRunCompleted = "collector-run-completed"
