package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Orphaned photo sweep, daily at midnight
	CronScheduleOrphanSweep string `env:"CRON_SCHEDULE_ORPHAN_SWEEP" envDefault:"0 0 0 * * *"`
}
